package service

import (
	"context"

	"github.com/rs/zerolog"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/storage"
)

type ProfileService struct {
	users   UserStore
	avatars AvatarPutter
	audit   AuditStore
	log     zerolog.Logger
}

// NewProfileService builds a profile service; avatars may be nil, in
// which case inline avatar payloads are stored verbatim.
func NewProfileService(users UserStore, avatars AvatarPutter, audit AuditStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		users:   users,
		avatars: avatars,
		audit:   audit,
		log:     log,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

type ProfileUpdateInput struct {
	Name   string
	DOB    *string
	Gender *string
	Avatar *string
}

// Update overwrites the mutable profile fields. Updates are last write
// wins; concurrent writers are not reconciled.
func (s *ProfileService) Update(ctx context.Context, userID string, input ProfileUpdateInput) (models.User, error) {
	if input.Name == "" {
		return models.User{}, apperr.New(apperr.KindValidation, "name is required")
	}

	avatar := input.Avatar
	if avatar != nil && s.avatars != nil && storage.IsDataURI(*avatar) {
		url, err := s.avatars.PutDataURI(ctx, userID, *avatar)
		if err != nil {
			return models.User{}, apperr.Wrap(apperr.KindPersistence, "store avatar", err)
		}
		avatar = &url
	}

	user, err := s.users.UpdateProfile(ctx, userID, input.Name, input.DOB, input.Gender, avatar)
	if err != nil {
		return models.User{}, err
	}

	recordAudit(ctx, s.audit, s.log, userID, models.AuditActionProfileUpdate)
	return user, nil
}
