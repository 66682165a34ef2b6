package repositories

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// AuditRepository persists security events.
type AuditRepository interface {
	// Insert writes one security event
	Insert(ctx context.Context, event *models.SecurityEvent) error

	// ListByUser returns the most recent events for an owner, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SecurityEvent, error)
}
