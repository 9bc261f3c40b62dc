package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
	"github.com/campus-hub/scolarite/student-docs-service/internal/mocks"
)

func boolPtr(b bool) *bool { return &b }

func TestUserServiceActivation(t *testing.T) {
	tests := []struct {
		name        string
		active      *bool
		wantMessage string
	}{
		{name: "validated", active: boolPtr(true), wantMessage: "Your account has been validated. You can now sign in."},
		{name: "refused", active: boolPtr(false), wantMessage: "Your account has been refused."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserRepository()
			dispatcher := mocks.NewMockDispatcher()
			svc := services.NewUserService(users, dispatcher)

			users.Seed(domain.User{ID: "stu-1", Email: "s@univ.test", Role: domain.RoleStudent})

			updated, err := svc.Update(context.Background(), "stu-1", ports.UserPatch{Active: tt.active})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Active != *tt.active {
				t.Errorf("patch not applied")
			}

			if len(dispatcher.Events) != 1 {
				t.Fatalf("activation must dispatch one event, got %d", len(dispatcher.Events))
			}
			evt := dispatcher.Events[0]
			if evt.Kind != ports.PayloadPlainMessage || evt.TargetUserID != "stu-1" {
				t.Errorf("event must target the affected user: %+v", evt)
			}
			if evt.Message != tt.wantMessage {
				t.Errorf("want %q, got %q", tt.wantMessage, evt.Message)
			}
		})
	}
}

func TestUserServiceUpdateWithoutActivationChange(t *testing.T) {
	users := mocks.NewMockUserRepository()
	dispatcher := mocks.NewMockDispatcher()
	svc := services.NewUserService(users, dispatcher)

	users.Seed(domain.User{ID: "stu-1", Role: domain.RoleStudent})

	phone := "+237 690 00 00 00"
	if _, err := svc.Update(context.Background(), "stu-1", ports.UserPatch{Phone: &phone}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dispatcher.Events) != 0 {
		t.Errorf("profile edits must not dispatch events")
	}
}

func TestUserServiceListValidation(t *testing.T) {
	svc := services.NewUserService(mocks.NewMockUserRepository(), mocks.NewMockDispatcher())

	_, _, err := svc.List(context.Background(), domain.UserFilter{
		PageQuery: domain.PageQuery{Page: -1},
	})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("negative page must be rejected, got %v", err)
	}
}

func TestUserServiceDelete(t *testing.T) {
	users := mocks.NewMockUserRepository()
	svc := services.NewUserService(users, mocks.NewMockDispatcher())

	users.Seed(domain.User{ID: "stu-1", Role: domain.RoleStudent})

	if err := svc.Delete(context.Background(), "stu-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), "stu-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted users must be invisible, got %v", err)
	}
}
