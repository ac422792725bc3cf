package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/models"
)

var (
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")
	ErrEmailTaken   = apperr.New(apperr.KindConflict, "email already registered")
)

// Postgres error codes surfaced as taxonomy kinds.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (id, name, email, password_hash, dob, gender, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.DOB,
		user.Gender,
		user.Avatar,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrEmailTaken
		}
		return apperr.Wrap(apperr.KindPersistence, "insert user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, dob, gender, avatar, created_at
		FROM users WHERE email = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, dob, gender, avatar, created_at
		FROM users WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// UpdateProfile overwrites the mutable profile fields and returns the
// updated row. Last write wins; there is no version check.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name string, dob, gender, avatar *string) (models.User, error) {
	const query = `
		UPDATE users
		SET name = $2, dob = $3, gender = $4, avatar = $5
		WHERE id = $1
		RETURNING id, name, email, password_hash, dob, gender, avatar, created_at
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id, name, dob, gender, avatar))
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.DOB,
		&user.Gender,
		&user.Avatar,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, apperr.Wrap(apperr.KindPersistence, "query user", err)
	}
	return user, nil
}
