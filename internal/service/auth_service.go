package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/config"
	"ipsstrack/api/internal/ids"
	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/repository"
	"ipsstrack/api/internal/security"
)

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password. The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid credentials")

const minPasswordLength = 6

type AuthService struct {
	users UserStore
	audit AuditStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, audit AuditStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		audit: audit,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return "", apperr.New(apperr.KindValidation, "name, email and password are required")
	}
	if len(input.Password) < minPasswordLength {
		return "", apperr.Newf(apperr.KindValidation, "password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return "", repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	passwordHash, err := security.HashPasswordWithCost(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return "", apperr.Wrap(apperr.KindPersistence, "hash password", err)
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	// The unique index backs up the pre-check under concurrent registers.
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	recordAudit(ctx, s.audit, s.log, user.ID, models.AuditActionRegister)

	return user.ID, nil
}

type LoginResult struct {
	Token string
	User  models.Identity
}

// VerifyCredentials resolves an email/password pair to an identity.
// Unknown email and hash mismatch collapse into the same error value so
// neither condition leaks.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (models.Identity, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return models.Identity{}, ErrInvalidCredentials
	}

	return user.Identity(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	identity, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := security.IssueToken(
		s.cfg.Security.TokenSecret,
		identity.ID,
		identity.Email,
		identity.Name,
		s.cfg.Security.TokenTTL,
	)
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.KindPersistence, "issue token", err)
	}

	s.log.Info().Str("user_id", identity.ID).Msg("user logged in")
	recordAudit(ctx, s.audit, s.log, identity.ID, models.AuditActionLogin)

	return LoginResult{Token: token, User: identity}, nil
}
