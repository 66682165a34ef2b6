// Package audit records security events for user-visible mutations.
// Recording is strictly best-effort: an unavailable audit sink must never
// fail the operation that triggered it.
package audit

import (
	"context"
	"log/slog"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

// Recorder persists security events and falls back to logging when the
// store is unavailable.
type Recorder struct {
	repo   repositories.AuditRepository
	logger *slog.Logger
}

// NewRecorder creates a security event recorder
func NewRecorder(repo repositories.AuditRepository, logger *slog.Logger) services.AuditRecorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record persists the event, logging instead of failing on error
func (r *Recorder) Record(ctx context.Context, event *models.SecurityEvent) {
	if err := r.repo.Insert(ctx, event); err != nil {
		r.logger.Warn("failed to record security event",
			"error", err,
			"user_id", event.UserID,
			"action", event.Action,
		)
	}
}
