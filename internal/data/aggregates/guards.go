package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CASGuard runs compare-and-set updates whose WHERE clause carries the
// expected stored state. A false result means another writer got there first.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

func validTarget(table, column string, id uuid.UUID) bool {
	return strings.TrimSpace(table) != "" && strings.TrimSpace(column) != "" && id != uuid.Nil
}

// UpdateIfNull applies updates only while column is still NULL.
func (g CASGuard) UpdateIfNull(dbc dbctx.Context, table string, id uuid.UUID, column string, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	if !validTarget(table, column, id) {
		return false, ValidationError("table, column and id are required for UpdateIfNull")
	}
	res := db.Table(table).
		Where("id = ? AND "+column+" IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateIfBelow applies updates only while column < value, so concurrent
// writers converge on the maximum.
func (g CASGuard) UpdateIfBelow(dbc dbctx.Context, table string, id uuid.UUID, column string, value any, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	if !validTarget(table, column, id) {
		return false, ValidationError("table, column and id are required for UpdateIfBelow")
	}
	res := db.Table(table).
		Where("id = ? AND "+column+" < ?", id, value).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
