package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/models"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, entry models.AuditEntry) error {
	const query = `
		INSERT INTO audit_logs (id, user_id, action, timestamp)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := r.pool.Exec(ctx, query, entry.ID, entry.UserID, entry.Action); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "insert audit entry", err)
	}
	return nil
}

// PurgeOlderThan deletes audit rows past the retention window and
// returns how many were removed.
func (r *AuditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM audit_logs WHERE timestamp < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindPersistence, "purge audit entries", err)
	}
	return cmd.RowsAffected(), nil
}
