package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ipsstrack/api/internal/ids"
	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/scoring"
)

type AssessmentService struct {
	assessments AssessmentStore
	audit       AuditStore
	cache       *redis.Client
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewAssessmentService builds the assessment service; cache may be nil,
// in which case every list goes to storage.
func NewAssessmentService(assessments AssessmentStore, audit AuditStore, cache *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		assessments: assessments,
		audit:       audit,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

type SubmitResult struct {
	ID         string
	TotalScore int
	Category   models.Category
}

// Submit validates the raw answers, recomputes total and category
// server side and appends the assessment. Caller-supplied totals are
// never trusted.
func (s *AssessmentService) Submit(ctx context.Context, userID string, raw scoring.Submission, notes *string) (SubmitResult, error) {
	answers, err := scoring.Validate(raw)
	if err != nil {
		return SubmitResult{}, err
	}

	total, category := scoring.Score(answers)

	assessment := models.Assessment{
		ID:         ids.New(),
		UserID:     userID,
		Items:      answers.Items,
		QoL:        answers.QoL,
		TotalScore: total,
		Category:   category,
		Notes:      notes,
	}

	if err := s.assessments.Insert(ctx, assessment); err != nil {
		return SubmitResult{}, err
	}

	s.invalidateList(ctx, userID)
	recordAudit(ctx, s.audit, s.log, userID, models.AuditActionSubmit)

	return SubmitResult{
		ID:         assessment.ID,
		TotalScore: total,
		Category:   category,
	}, nil
}

// List returns the user's assessments newest first, through a short
// read-through cache when one is configured. Cache failures fall back
// to storage.
func (s *AssessmentService) List(ctx context.Context, userID string) ([]models.Assessment, error) {
	key := listCacheKey(userID)

	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []models.Assessment
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	assessments, err := s.assessments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(assessments); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("assessment list cache set failed")
			}
		}
	}

	return assessments, nil
}

func (s *AssessmentService) invalidateList(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listCacheKey(userID)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("assessment list cache invalidation failed")
	}
}

func listCacheKey(userID string) string {
	return fmt.Sprintf("assessments:%s", userID)
}
