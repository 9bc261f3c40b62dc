package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// OutboxEmailStore durably queues emails in the outbox_events table.
// A trigger fires pg_notify on insert; the relay process picks the row
// up and ships it to the mail broker. Acceptance here is a committed
// row, delivery happens out of band.
type OutboxEmailStore struct {
	db *sql.DB
}

var _ ports.EmailEnqueuer = (*OutboxEmailStore)(nil)

func NewOutboxEmailStore(db *sql.DB) *OutboxEmailStore {
	return &OutboxEmailStore{db: db}
}

func (s *OutboxEmailStore) EnqueueEmail(ctx context.Context, evt ports.EmailQueuedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal email event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1, 'email', $1, $2, $3)`,
		evt.ID, evt.Kind, payload)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", mapError(err))
	}
	return nil
}
