package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type AuditLog struct {
	ID         int64
	EntityType string
	EntityID   string
	Action     string
	Detail     json.RawMessage
	CreatedAt  time.Time
}

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record writes one audit row. detail is marshalled to JSON; a nil detail
// stores NULL.
func (r *AuditRepository) Record(ctx context.Context, entityType, entityID, action string, detail any) error {
	var payload any
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("Record: marshal detail: %w", err)
		}
		payload = b
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (entity_type, entity_id, action, detail) VALUES ($1, $2, $3, $4)`,
		entityType, entityID, action, payload,
	)
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, detail, created_at
		FROM audit_logs WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByEntity: %w", err)
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var l AuditLog
		var detail []byte
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &detail, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByEntity: scan: %w", err)
		}
		if detail != nil {
			l.Detail = json.RawMessage(detail)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByEntity: rows: %w", err)
	}
	return logs, nil
}
