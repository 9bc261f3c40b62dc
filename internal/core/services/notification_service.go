package services

import (
	"context"
	"fmt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// NotificationReader serves a user's own notifications and lets them
// flip the seen flag. Ownership is enforced in the repository's WHERE
// clause, so ids belonging to someone else are silently skipped.
type NotificationReader struct {
	repo ports.NotificationRepository
}

var _ ports.NotificationService = (*NotificationReader)(nil)

func NewNotificationReader(repo ports.NotificationRepository) *NotificationReader {
	return &NotificationReader{repo: repo}
}

func (s *NotificationReader) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *NotificationReader) MarkSeen(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkSeen(ctx, ids, ownerID)
}
