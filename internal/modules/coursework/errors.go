package coursework

import (
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

func validationError(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

func notFound(op, what string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, what+" not found", nil)
}

func noQuestions(op, msg string) error {
	return domainagg.NewError(domainagg.CodeNoQuestions, op, msg, nil)
}

func notCompleted(op string) error {
	return domainagg.NewError(domainagg.CodeNotCompleted, op, "enrollment is not completed", nil)
}

// storageError keeps the engine's own failure codes and turns everything else
// into an opaque storage failure.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeNotFound, domainagg.CodeNoQuestions, domainagg.CodeNotCompleted:
		return err
	}
	return domainagg.NewError(domainagg.CodeStorage, op, "storage failure", err)
}

func isConflict(err error) bool {
	return domainagg.IsCode(err, domainagg.CodeConflict)
}

func internalError(op string, err error) error {
	return domainagg.NewError(domainagg.CodeInternal, op, "internal failure", err)
}
