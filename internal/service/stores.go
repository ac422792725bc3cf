package service

import (
	"context"

	"ipsstrack/api/internal/models"
)

// Storage dependencies are consumed through interfaces so services stay
// testable against in-memory fakes; the pgx repositories satisfy them.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, name string, dob, gender, avatar *string) (models.User, error)
}

type AssessmentStore interface {
	Insert(ctx context.Context, a models.Assessment) error
	ListByUser(ctx context.Context, userID string) ([]models.Assessment, error)
}

type AuditStore interface {
	Insert(ctx context.Context, entry models.AuditEntry) error
}

// AvatarPutter stores inline avatar payloads and returns the reference
// to persist.
type AvatarPutter interface {
	PutDataURI(ctx context.Context, userID string, dataURI string) (string, error)
}
