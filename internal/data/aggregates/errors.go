package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"gorm.io/gorm"
)

// Sentinels a write body joins into its error to choose the mapped code.
var (
	ErrValidation = errors.New("coursework store validation")
	ErrInvariant  = errors.New("coursework store invariant violation")
	ErrConflict   = errors.New("coursework store conflict")
	ErrRetryable  = errors.New("coursework store retryable")
)

func ValidationError(msg string) error { return tagged(ErrValidation, msg) }

func InvariantError(msg string) error { return tagged(ErrInvariant, msg) }

func ConflictError(msg string) error { return tagged(ErrConflict, msg) }

func RetryableError(msg string) error { return tagged(ErrRetryable, msg) }

func tagged(kind error, msg string) error {
	return errors.Join(kind, errors.New(strings.TrimSpace(msg)))
}

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrInvariant, domainagg.CodePreconditionFailed},
	{ErrConflict, domainagg.CodeConflict},
	{ErrRetryable, domainagg.CodeRetryable},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{gorm.ErrDuplicatedKey, domainagg.CodeConflict},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// Serialization failures and lock waits lose a race with another writer, so
// they map to conflict and fall under the engine's bounded retry.
var pgStateCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"23514": domainagg.CodeValidation,         // check_violation
	"40001": domainagg.CodeConflict,           // serialization_failure
	"40P01": domainagg.CodeConflict,           // deadlock_detected
	"55P03": domainagg.CodeConflict,           // lock_not_available
	"57014": domainagg.CodeRetryable,          // query_canceled
}

// sqlite only reports constraint and locking failures as text.
var messageCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"duplicate key", domainagg.CodeConflict},
	{"unique constraint failed", domainagg.CodeConflict},
	{"foreign key constraint failed", domainagg.CodePreconditionFailed},
	{"check constraint failed", domainagg.CodeValidation},
	{"database is locked", domainagg.CodeConflict},
	{"database table is locked", domainagg.CodeConflict},
	{"deadlock", domainagg.CodeConflict},
	{"serialization", domainagg.CodeConflict},
	{"timeout", domainagg.CodeRetryable},
}

// MapError gives every store failure an error code. Errors that already carry
// one pass through untouched; anything unrecognised becomes CodeStorage.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgStateCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range messageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return domainagg.CodeStorage
}
