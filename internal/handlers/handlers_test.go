package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ipsstrack/api/internal/config"
	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/repository"
	"ipsstrack/api/internal/service"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
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

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, id string, name string, dob, gender, avatar *string) (models.User, error) {
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

type memAssessmentStore struct {
	mu          sync.Mutex
	assessments []models.Assessment
}

func (s *memAssessmentStore) Insert(_ context.Context, a models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Date = time.Now()
	s.assessments = append([]models.Assessment{a}, s.assessments...)
	return nil
}

func (s *memAssessmentStore) ListByUser(_ context.Context, userID string) ([]models.Assessment, error) {
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

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			TokenSecret: "test-signing-secret",
			TokenTTL:    time.Hour,
			BcryptCost:  bcrypt.MinCost,
		},
	}

	logger := zerolog.Nop()
	users := &memUserStore{users: map[string]models.User{}}
	assessments := &memAssessmentStore{}

	h := HandlerSet{
		log:         logger,
		cfg:         cfg,
		auth:        service.NewAuthService(users, nil, cfg, logger),
		profiles:    service.NewProfileService(users, nil, nil, logger),
		assessments: service.NewAssessmentService(assessments, nil, nil, 0, logger),
	}

	engine := gin.New()
	h.Register(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestEndToEnd_RegisterLoginSubmitList(t *testing.T) {
	engine := newTestRouter(t)

	// Register.
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/register", "", gin.H{
		"name": "Alice", "email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	userID := decodeBody(t, rec)["userId"].(string)
	require.NotEmpty(t, userID)

	// Login.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	token := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "Alice", user["name"])

	// Submit all-threes with qol 2.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/assessments", token, gin.H{
		"q1": 3, "q2": 3, "q3": 3, "q4": 3, "q5": 3, "q6": 3, "q7": 3, "qol": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Equal(t, float64(21), body["totalScore"])
	assert.Equal(t, "Severe", body["category"])

	// List.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/assessments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decodeBody(t, rec)["assessments"].([]any)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, float64(21), entry["totalScore"])
	assert.Equal(t, "Severe", entry["category"])
	assert.Equal(t, float64(2), entry["qol"])
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	engine := newTestRouter(t)

	payload := gin.H{"name": "Alice", "email": "alice@example.test", "password": "hunter22"}

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/register", "", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already registered", decodeBody(t, rec)["error"])
}

func TestLogin_BadCredentials(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/register", "", gin.H{
		"name": "Alice", "email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	wrongPw := doJSON(t, engine, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "alice@example.test", "password": "nope",
	})
	unknown := doJSON(t, engine, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "nobody@example.test", "password": "hunter22",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// Same status, same body: the two failures are indistinguishable.
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	engine := newTestRouter(t)

	for _, probe := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPut, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/assessments"},
		{http.MethodPost, "/api/v1/assessments"},
	} {
		rec := doJSON(t, engine, probe.method, probe.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", probe.method, probe.path)
		assert.Equal(t, "unauthorized", decodeBody(t, rec)["error"])
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitAssessment_OutOfRangeRejected(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/register", "", gin.H{
		"name": "Alice", "email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)

	cases := []gin.H{
		{"q1": 6, "q2": 0, "q3": 0, "q4": 0, "q5": 0, "q6": 0, "q7": 0, "qol": 0},
		{"q1": 0, "q2": 0, "q3": 0, "q4": 0, "q5": 0, "q6": 0, "q7": 0, "qol": 7},
		{"q1": 0, "q2": 0, "q3": 0, "q4": 0, "q5": 0, "q6": 0, "qol": 0}, // q7 missing
	}

	for _, payload := range cases {
		rec = doJSON(t, engine, http.MethodPost, "/api/v1/assessments", token, payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestProfile_GetAndUpdate(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/register", "", gin.H{
		"name": "Alice", "email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "alice@example.test", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice", user["name"])
	assert.Nil(t, user["dob"])

	rec = doJSON(t, engine, http.MethodPut, "/api/v1/profile", token, gin.H{
		"name": "Alice B.", "dob": "1970-01-01", "gender": "male",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user = decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice B.", user["name"])
	assert.Equal(t, "1970-01-01", user["dob"])

	rec = doJSON(t, engine, http.MethodPut, "/api/v1/profile", token, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
