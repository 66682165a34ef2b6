package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
)

// AuditRepository implements repositories.AuditRepository on Postgres
type AuditRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(config *RepositoryConfig) repositories.AuditRepository {
	return &AuditRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert appends a security event
func (r *AuditRepository) Insert(ctx context.Context, event *models.SecurityEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, action, detail, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, r.tables.SecurityEvents)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Action,
		event.Detail,
		event.IPAddress,
		event.UserAgent,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}

	return nil
}

// ListByUser returns the most recent security events for a user
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.SecurityEvent, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, action, detail, ip_address, user_agent, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.SecurityEvents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	defer rows.Close()

	var events []models.SecurityEvent
	for rows.Next() {
		var event models.SecurityEvent
		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.Action,
			&event.Detail,
			&event.IPAddress,
			&event.UserAgent,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}

	return events, nil
}
