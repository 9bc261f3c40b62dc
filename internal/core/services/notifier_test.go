package services_test

import (
	"context"
	"testing"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
	"github.com/campus-hub/scolarite/student-docs-service/internal/mocks"
)

func TestNotifyRoleExcept(t *testing.T) {
	users := mocks.NewMockUserRepository()
	notifs := mocks.NewMockNotificationRepository()
	fanout := services.NewNotificationFanout(users, notifs)

	users.Seed(domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	users.Seed(domain.User{ID: "staff-1", Role: domain.RoleStaff})
	users.Seed(domain.User{ID: "stu-1", Role: domain.RoleStudent})
	users.Seed(domain.User{ID: "gone", Role: domain.RoleAdmin, Deleted: true})

	req := &domain.DocumentRequest{ID: 7, Number: "DOC-0007"}
	created, err := fanout.NotifyRoleExcept(context.Background(), req, domain.RoleStudent, "new request", domain.NotifNewRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("expected admin + staff rows, got %d", len(created))
	}
	for _, n := range created {
		if n.UserID == "stu-1" {
			t.Errorf("students must be excluded")
		}
		if n.UserID == "gone" {
			t.Errorf("deleted users must be excluded")
		}
		if n.RequestID == nil || *n.RequestID != 7 {
			t.Errorf("rows must reference the request")
		}
		if n.Seen {
			t.Errorf("new rows start unseen")
		}
	}
}

func TestNotifyRoleExceptNoRecipients(t *testing.T) {
	users := mocks.NewMockUserRepository()
	notifs := mocks.NewMockNotificationRepository()
	fanout := services.NewNotificationFanout(users, notifs)

	// Only students registered: nothing to create, no error.
	users.Seed(domain.User{ID: "stu-1", Role: domain.RoleStudent})

	created, err := fanout.NotifyRoleExcept(context.Background(),
		&domain.DocumentRequest{Number: "DOC-0001"}, domain.RoleStudent, "x", domain.NotifNewRequest)
	if err != nil {
		t.Fatalf("empty recipient set is not an error: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no rows, got %d", len(created))
	}
	if len(notifs.CreateBatchCalls) != 0 {
		t.Errorf("no batch may be written for zero recipients")
	}
}

func TestNotifyRequesterContent(t *testing.T) {
	tests := []struct {
		name        string
		category    *domain.Category
		wantContent string
	}{
		{
			name:        "uses_category_template",
			category:    &domain.Category{NotifTemplate: "Votre relevé est prêt."},
			wantContent: "Votre relevé est prêt.",
		},
		{
			name:        "falls_back_without_template",
			category:    &domain.Category{},
			wantContent: "Your document request (N°: DOC-0042) has been validated.",
		},
		{
			name:        "falls_back_without_category",
			category:    nil,
			wantContent: "Your document request (N°: DOC-0042) has been validated.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserRepository()
			notifs := mocks.NewMockNotificationRepository()
			fanout := services.NewNotificationFanout(users, notifs)

			req := &domain.DocumentRequest{
				ID:          42,
				Number:      "DOC-0042",
				RequesterID: "stu-1",
				Category:    tt.category,
			}
			created, err := fanout.NotifyRequester(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.UserID != "stu-1" || created.Type != domain.NotifValidation {
				t.Errorf("wrong row: %+v", created)
			}
			if created.Content != tt.wantContent {
				t.Errorf("want %q, got %q", tt.wantContent, created.Content)
			}
		})
	}
}

func TestNotifyAdminsOfRegistration(t *testing.T) {
	users := mocks.NewMockUserRepository()
	notifs := mocks.NewMockNotificationRepository()
	fanout := services.NewNotificationFanout(users, notifs)

	users.Seed(domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	users.Seed(domain.User{ID: "staff-1", Role: domain.RoleStaff})

	created, err := fanout.NotifyAdminsOfRegistration(context.Background(),
		&domain.User{ID: "stu-9", FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0].UserID != "admin-1" {
		t.Errorf("only admins are notified about registrations, got %+v", created)
	}
	if created[0].RequestID != nil {
		t.Errorf("registration rows reference no request")
	}
}
