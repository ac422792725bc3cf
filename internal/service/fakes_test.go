package service

import (
	"context"
	"sync"
	"time"

	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/repository"
)

// In-memory stand-ins for the pgx repositories, honoring the same
// sentinel errors.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id string, name string, dob, gender, avatar *string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	user.Name = name
	user.DOB = dob
	user.Gender = gender
	user.Avatar = avatar
	s.users[id] = user
	return user, nil
}

type fakeAssessmentStore struct {
	mu          sync.Mutex
	users       *fakeUserStore // referential integrity when set
	assessments []models.Assessment
}

func (s *fakeAssessmentStore) Insert(ctx context.Context, a models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users != nil {
		if _, err := s.users.GetByID(ctx, a.UserID); err != nil {
			return repository.ErrUserNotFound
		}
	}
	a.Date = time.Now()
	// Newest first, matching the repository's descending order.
	s.assessments = append([]models.Assessment{a}, s.assessments...)
	return nil
}

func (s *fakeAssessmentStore) ListByUser(_ context.Context, userID string) ([]models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Assessment{}
	for _, a := range s.assessments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (s *fakeAuditStore) Insert(_ context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeAuditStore) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeAvatarStore struct {
	lastUserID string
	lastURI    string
}

func (s *fakeAvatarStore) PutDataURI(_ context.Context, userID string, dataURI string) (string, error) {
	s.lastUserID = userID
	s.lastURI = dataURI
	return "https://cdn.test/avatars/" + userID, nil
}
