package services

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// AuditRecorder writes security events. Recording is best-effort: it never
// returns an error to the caller, failures are logged by the implementation.
type AuditRecorder interface {
	Record(ctx context.Context, event *models.SecurityEvent)
}
