package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ipsstrack/api/internal/apperr"
	"ipsstrack/api/internal/config"
	"ipsstrack/api/internal/middleware"
	"ipsstrack/api/internal/repository"
	"ipsstrack/api/internal/service"
	"ipsstrack/api/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	auth        *service.AuthService
	profiles    *service.ProfileService
	assessments *service.AssessmentService
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, avatars *storage.AvatarStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// The *AvatarStore must not be wrapped in the interface when nil,
	// or the nil check inside the service would see a non-nil value.
	var avatarPutter service.AvatarPutter
	if avatars != nil {
		avatarPutter = avatars
	}

	auth := service.NewAuthService(userRepo, auditRepo, cfg, log)
	profiles := service.NewProfileService(userRepo, avatarPutter, auditRepo, log)
	assessments := service.NewAssessmentService(assessmentRepo, auditRepo, cache, cfg.Redis.ListCacheTTL, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		auth:        auth,
		profiles:    profiles,
		assessments: assessments,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	v1.POST("/register", h.RegisterUser)
	v1.POST("/login", h.Login)

	protected := v1.Group("")
	protected.Use(middleware.Auth(h.cfg.Security.TokenSecret))
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.GET("/assessments", h.ListAssessments)
	protected.POST("/assessments", h.SubmitAssessment)
}

// respondError maps the error taxonomy onto the boundary statuses: 400
// for validation and duplicate-key, 401 for auth, 404 for missing
// entities, 500 for storage faults. Persistence messages are replaced
// with a generic one before they leave the process.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(apperr.KindOf(err)), gin.H{"error": apperr.Message(err)})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
