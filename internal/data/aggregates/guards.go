package aggregates

import (
	"strings"

	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"gorm.io/gorm"
)

// CASGuard provides compare-and-set helpers for status transitions.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx == nil && g.db == nil {
		return nil, ValidationError("missing db transaction context")
	}
	return dbc.DB(g.db), nil
}

// UpdateByStatus updates a row only when its status is one of allowed.
func (g CASGuard) UpdateByStatus(dbc dbctx.Context, table, id string, allowed []learning.Status, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || strings.TrimSpace(id) == "" {
		return false, ValidationError("table and id are required for UpdateByStatus")
	}
	if len(allowed) == 0 {
		return false, ValidationError("allowed statuses must not be empty")
	}
	res := db.Table(table).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireRowsAffected turns a write step that touched nothing into a partial failure.
func RequireRowsAffected(n int64, step string) error {
	if n > 0 {
		return nil
	}
	return PartialFailureError("%s affected no rows", strings.TrimSpace(step))
}

// RequireForwardTransition rejects moves back along NotStarted -> InProgress -> Completed.
func RequireForwardTransition(current, next learning.Status) error {
	if !next.Valid() {
		return ValidationError("unknown status %q", next)
	}
	if statusRank(next) < statusRank(current) {
		return InvariantError("status cannot move from %q back to %q", current, next)
	}
	return nil
}

func statusRank(s learning.Status) int {
	switch s {
	case learning.StatusInProgress:
		return 1
	case learning.StatusCompleted:
		return 2
	default:
		return 0
	}
}
