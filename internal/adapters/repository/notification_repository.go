package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type NotificationRepository struct {
	db *sql.DB
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts all rows in one transaction so a fan-out either
// lands completely or not at all.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifs []domain.Notification) ([]domain.Notification, error) {
	if len(notifs) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notifications (user_id, request_id, content, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, request_id, content, type, seen, created_at`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	created := make([]domain.Notification, 0, len(notifs))
	for _, n := range notifs {
		var out domain.Notification
		err := stmt.QueryRowContext(ctx, n.UserID, n.RequestID, n.Content, n.Type).Scan(
			&out.ID, &out.UserID, &out.RequestID, &out.Content, &out.Type, &out.Seen, &out.CreatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		created = append(created, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, request_id, content, type, seen, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.RequestID, &n.Content, &n.Type, &n.Seen, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkSeen restricts the update to ownerID's rows in the WHERE clause
// rather than checking ownership first, so foreign ids are silently
// skipped instead of erroring. The count covers every owned row that
// matched, already-seen rows included.
func (r *NotificationRepository) MarkSeen(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET seen = TRUE
		WHERE id = ANY($1) AND user_id = $2`,
		pq.Array(ids), ownerID)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}
