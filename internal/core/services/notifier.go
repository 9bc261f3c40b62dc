package services

import (
	"context"
	"fmt"
	"log"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// NotificationFanout derives recipients for an event and persists one
// notification row per recipient. It never touches the entity that
// triggered the event.
type NotificationFanout struct {
	users ports.UserRepository
	repo  ports.NotificationRepository
}

var _ ports.Notifier = (*NotificationFanout)(nil)

func NewNotificationFanout(users ports.UserRepository, repo ports.NotificationRepository) *NotificationFanout {
	return &NotificationFanout{users: users, repo: repo}
}

func (f *NotificationFanout) NotifyRoleExcept(
	ctx context.Context,
	req *domain.DocumentRequest,
	excluded domain.Role,
	content string,
	t domain.NotificationType,
) ([]domain.Notification, error) {
	if excluded == "" {
		excluded = domain.RoleStudent
	}

	targets, err := f.users.ListIDsByRoleNot(ctx, excluded)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		log.Printf("notifier: no recipients for %s notification on request %s", t, req.Number)
		return nil, nil
	}

	notifs := make([]domain.Notification, 0, len(targets))
	for _, userID := range targets {
		requestID := req.ID
		notifs = append(notifs, domain.Notification{
			UserID:    userID,
			RequestID: &requestID,
			Content:   content,
			Type:      t,
			Seen:      false,
		})
	}

	return f.repo.CreateBatch(ctx, notifs)
}

func (f *NotificationFanout) NotifyRequester(ctx context.Context, req *domain.DocumentRequest) (*domain.Notification, error) {
	content := ""
	if req.Category != nil {
		content = req.Category.NotifTemplate
	}
	if content == "" {
		content = fmt.Sprintf("Your document request (N°: %s) has been validated.", req.Number)
	}

	requestID := req.ID
	created, err := f.repo.CreateBatch(ctx, []domain.Notification{{
		UserID:    req.RequesterID,
		RequestID: &requestID,
		Content:   content,
		Type:      domain.NotifValidation,
		Seen:      false,
	}})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (f *NotificationFanout) NotifyAdminsOfRegistration(ctx context.Context, newUser *domain.User) ([]domain.Notification, error) {
	admins, err := f.users.ListIDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		log.Printf("notifier: no admins to notify about registration of %s", newUser.Email)
		return nil, nil
	}

	content := fmt.Sprintf(
		"New registration awaiting validation. A new user is pending administrative approval. Student: %s",
		newUser.FullName())

	notifs := make([]domain.Notification, 0, len(admins))
	for _, adminID := range admins {
		notifs = append(notifs, domain.Notification{
			UserID:  adminID,
			Content: content,
			Type:    domain.NotifRegistration,
			Seen:    false,
		})
	}

	return f.repo.CreateBatch(ctx, notifs)
}
