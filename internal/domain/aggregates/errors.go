package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies failures crossing the engine boundary. Codes are
// stable and safe to show to clients.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeNoQuestions        ErrorCode = "no_questions"
	CodeNotCompleted       ErrorCode = "not_completed"
	CodeConflict           ErrorCode = "conflict"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeStorage            ErrorCode = "storage"
	CodeInternal           ErrorCode = "internal"
)

// Error carries a code plus the operation that failed. Cause stays reachable
// through errors.Is and errors.As but is never rendered to clients.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 2)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return strings.Join(parts, ": ") + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap attaches code to err using err's text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
