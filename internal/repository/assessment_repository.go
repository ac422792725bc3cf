package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/models"
)

type AssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Insert appends one scored assessment. A foreign-key violation means
// the owning user does not exist.
func (r *AssessmentRepository) Insert(ctx context.Context, a models.Assessment) error {
	const query = `
		INSERT INTO assessments (
			id, user_id, q1, q2, q3, q4, q5, q6, q7, qol,
			total_score, category, notes, date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Items[0], a.Items[1], a.Items[2], a.Items[3], a.Items[4], a.Items[5], a.Items[6],
		a.QoL,
		a.TotalScore,
		a.Category,
		a.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrUserNotFound
		}
		return apperr.Wrap(apperr.KindPersistence, "insert assessment", err)
	}
	return nil
}

// ListByUser returns the user's assessments newest first. A user with no
// submissions gets an empty slice, not an error.
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Assessment, error) {
	const query = `
		SELECT id, user_id, q1, q2, q3, q4, q5, q6, q7, qol,
		       total_score, category, notes, date
		FROM assessments
		WHERE user_id = $1
		ORDER BY date DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list assessments", err)
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Items[0], &a.Items[1], &a.Items[2], &a.Items[3], &a.Items[4], &a.Items[5], &a.Items[6],
			&a.QoL,
			&a.TotalScore,
			&a.Category,
			&a.Notes,
			&a.Date,
		); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, "scan assessment", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "list assessments", err)
	}
	return assessments, nil
}
