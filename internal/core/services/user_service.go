package services

import (
	"context"
	"log"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// UserService covers the admin-facing user management operations.
// Activation changes are pushed to the affected user's channel so an
// open client learns about it immediately.
type UserService struct {
	users      ports.UserRepository
	dispatcher ports.Dispatcher
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, dispatcher ports.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, domain.PageMeta, error) {
	filter.PageQuery = filter.PageQuery.Normalized()
	if err := filter.PageQuery.Validate(); err != nil {
		return nil, domain.PageMeta{}, err
	}
	return s.users.List(ctx, filter)
}

func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Active != nil {
		message := "Your account has been refused."
		if *patch.Active {
			message = "Your account has been validated. You can now sign in."
		}
		evt := ports.NotificationEvent{
			Kind:         ports.PayloadPlainMessage,
			Type:         domain.NotifRegistration,
			Message:      message,
			TargetUserID: updated.ID,
		}
		if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
			log.Printf("user service: activation dispatch failed for %s: %v", updated.ID, err)
		}
	}

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.SoftDelete(ctx, id)
}
