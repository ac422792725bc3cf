package service

import (
	"context"

	"github.com/rs/zerolog"

	"ipsstrack/api/internal/ids"
	"ipsstrack/api/internal/models"
)

// recordAudit appends an audit entry. Best effort: a failed audit write
// never fails the request it describes.
func recordAudit(ctx context.Context, audit AuditStore, log zerolog.Logger, userID string, action string) {
	if audit == nil {
		return
	}
	entry := models.AuditEntry{
		ID:     ids.New(),
		UserID: &userID,
		Action: action,
	}
	if err := audit.Insert(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Str("user_id", userID).Msg("audit write failed")
	}
}
