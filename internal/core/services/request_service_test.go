package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
	"github.com/campus-hub/scolarite/student-docs-service/internal/mocks"
)

type requestServiceFixture struct {
	requests   *mocks.MockRequestRepository
	catalog    *mocks.MockCatalogRepository
	users      *mocks.MockUserRepository
	notifs     *mocks.MockNotificationRepository
	dispatcher *mocks.MockDispatcher
	service    *services.RequestService
}

func newRequestServiceFixture() *requestServiceFixture {
	f := &requestServiceFixture{
		requests:   mocks.NewMockRequestRepository(),
		catalog:    mocks.NewMockCatalogRepository(),
		users:      mocks.NewMockUserRepository(),
		notifs:     mocks.NewMockNotificationRepository(),
		dispatcher: mocks.NewMockDispatcher(),
	}
	notifier := services.NewNotificationFanout(f.users, f.notifs)
	f.service = services.NewRequestService(f.requests, f.catalog, f.users, notifier, f.dispatcher)
	return f
}

func (f *requestServiceFixture) seedStaffAndStudents() {
	f.users.Seed(domain.User{ID: "admin-1", Email: "a1@univ.test", Role: domain.RoleAdmin})
	f.users.Seed(domain.User{ID: "admin-2", Email: "a2@univ.test", Role: domain.RoleAdmin})
	f.users.Seed(domain.User{ID: "staff-1", Email: "s1@univ.test", Role: domain.RoleStaff})
	for _, id := range []string{"stu-1", "stu-2", "stu-3", "stu-4", "stu-5"} {
		f.users.Seed(domain.User{ID: id, Email: id + "@univ.test", Role: domain.RoleStudent})
	}
}

func TestRequestServiceCreate(t *testing.T) {
	f := newRequestServiceFixture()
	f.seedStaffAndStudents()
	f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION DE REUSSITE", RequiresInfo: true})

	req, err := f.service.Create(context.Background(), ports.CreateRequestParams{
		RequesterID: "stu-1",
		CategoryID:  1,
		Infos:       []domain.SupplementaryInfo{{Level: "Licence 3", AcademicYear: "2024-2025"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Status != domain.StatusPending {
		t.Errorf("new request must be pending, got %s", req.Status)
	}
	if req.ValidatedAt != nil {
		t.Errorf("new request must have no validation timestamp")
	}
	if req.Number == "" {
		t.Errorf("new request must carry a generated number")
	}

	// Fan-out: every non-student gets a row (2 admins + 1 staff), the
	// 5 students get nothing.
	if len(f.notifs.CreateBatchCalls) != 1 {
		t.Fatalf("expected one fan-out batch, got %d", len(f.notifs.CreateBatchCalls))
	}
	if got := len(f.notifs.CreateBatchCalls[0]); got != 3 {
		t.Errorf("expected 3 notification rows, got %d", got)
	}
	for _, n := range f.notifs.CreateBatchCalls[0] {
		if n.Type != domain.NotifNewRequest {
			t.Errorf("expected new-request type, got %s", n.Type)
		}
		if n.RequestID == nil || *n.RequestID != req.ID {
			t.Errorf("notification must reference the request")
		}
	}

	// One dispatched event carrying the admin email batch.
	if len(f.dispatcher.Events) != 1 {
		t.Fatalf("expected one dispatched event, got %d", len(f.dispatcher.Events))
	}
	evt := f.dispatcher.Events[0]
	if evt.Kind != ports.PayloadRequestNotification {
		t.Errorf("expected request-notification payload, got %s", evt.Kind)
	}
	if evt.TargetUserID != "" {
		t.Errorf("new-request events go to the shared staff channel")
	}
	if len(evt.EmailRecipients) != 2 {
		t.Errorf("expected 2 admin email recipients, got %d", len(evt.EmailRecipients))
	}
}

func TestRequestServiceCreateDropsInfosWhenNotRequired(t *testing.T) {
	f := newRequestServiceFixture()
	f.catalog.SeedCategory(domain.Category{ID: 2, Designation: "RELEVER DE NOTE", RequiresInfo: false})

	_, err := f.service.Create(context.Background(), ports.CreateRequestParams{
		RequesterID: "stu-1",
		CategoryID:  2,
		Infos:       []domain.SupplementaryInfo{{Level: "Licence 1", AcademicYear: "2023-2024"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.requests.CreateCalls[0].Infos; got != nil {
		t.Errorf("infos must be dropped for categories that do not require them, got %v", got)
	}
}

func TestRequestServiceCreateUnknownCategory(t *testing.T) {
	f := newRequestServiceFixture()

	_, err := f.service.Create(context.Background(), ports.CreateRequestParams{
		RequesterID: "stu-1",
		CategoryID:  999,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(f.requests.CreateCalls) != 0 {
		t.Errorf("no request row may be created for an unknown category")
	}
}

func TestRequestServiceCreateSurvivesDispatchFailure(t *testing.T) {
	f := newRequestServiceFixture()
	f.seedStaffAndStudents()
	f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION"})
	f.dispatcher.DispatchError = errors.New("redis down")

	req, err := f.service.Create(context.Background(), ports.CreateRequestParams{
		RequesterID: "stu-1",
		CategoryID:  1,
	})
	if err != nil {
		t.Fatalf("a failed dispatch must not fail the creation: %v", err)
	}
	if req == nil || req.Status != domain.StatusPending {
		t.Errorf("request must be committed despite dispatch failure")
	}
}

func TestRequestServiceCreateSurvivesFanoutFailure(t *testing.T) {
	f := newRequestServiceFixture()
	f.seedStaffAndStudents()
	f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION"})
	f.notifs.CreateBatchError = errors.New("insert failed")

	req, err := f.service.Create(context.Background(), ports.CreateRequestParams{
		RequesterID: "stu-1",
		CategoryID:  1,
	})
	if err != nil {
		t.Fatalf("a failed fan-out must not fail the creation: %v", err)
	}

	// With no notification row the dispatcher falls back to a plain
	// message.
	if len(f.dispatcher.Events) != 1 {
		t.Fatalf("expected one dispatched event, got %d", len(f.dispatcher.Events))
	}
	if f.dispatcher.Events[0].Kind != ports.PayloadPlainMessage {
		t.Errorf("expected plain-message fallback, got %s", f.dispatcher.Events[0].Kind)
	}
	_ = req
}

func TestRequestServiceUpdateByOwner(t *testing.T) {
	newName := "Updated Father"

	tests := []struct {
		name      string
		requester string
		status    domain.RequestStatus
		callerID  string
		wantErr   error
	}{
		{name: "owner_edits_pending", requester: "stu-1", status: domain.StatusPending, callerID: "stu-1"},
		{name: "foreign_request_hidden", requester: "stu-1", status: domain.StatusPending, callerID: "stu-2", wantErr: domain.ErrNotFound},
		{name: "validated_request_locked", requester: "stu-1", status: domain.StatusValidated, callerID: "stu-1", wantErr: domain.ErrInvalidArgument},
		{name: "refused_request_locked", requester: "stu-1", status: domain.StatusRefused, callerID: "stu-1", wantErr: domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestServiceFixture()
			f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION"})
			seeded := f.requests.Seed(domain.DocumentRequest{
				Number:      "DOC-TEST",
				RequesterID: tt.requester,
				CategoryID:  1,
				Status:      tt.status,
			})

			_, err := f.service.UpdateByOwner(context.Background(), seeded.ID, tt.callerID, ports.OwnerUpdate{
				FatherName: &newName,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequestServiceUpdateByOwnerReplacesInfos(t *testing.T) {
	f := newRequestServiceFixture()
	f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION", RequiresInfo: true})
	seeded := f.requests.Seed(domain.DocumentRequest{
		RequesterID: "stu-1",
		CategoryID:  1,
		Status:      domain.StatusPending,
		Infos:       []domain.SupplementaryInfo{{Level: "Licence 1", AcademicYear: "2022-2023"}},
	})

	updated, err := f.service.UpdateByOwner(context.Background(), seeded.ID, "stu-1", ports.OwnerUpdate{
		Infos: []domain.SupplementaryInfo{
			{Level: "Licence 2", AcademicYear: "2023-2024"},
			{Level: "Licence 3", AcademicYear: "2024-2025"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Infos) != 2 {
		t.Fatalf("infos must be replaced wholesale, got %d rows", len(updated.Infos))
	}
	if updated.Infos[0].Level != "Licence 2" {
		t.Errorf("old info rows must be gone, got %+v", updated.Infos[0])
	}

	if !f.requests.UpdateByOwnerCalls[0].ReplaceInfos {
		t.Errorf("patch must request info replacement")
	}
}

func TestRequestServiceUpdateByStaffValidation(t *testing.T) {
	f := newRequestServiceFixture()
	f.catalog.SeedCategory(domain.Category{ID: 1, Designation: "ATTESTATION", NotifTemplate: "Votre attestation est prête."})
	requester := f.users.Seed(domain.User{ID: "stu-1", Email: "stu-1@univ.test", Role: domain.RoleStudent})
	seeded := f.requests.Seed(domain.DocumentRequest{
		Number:      "DOC-AB12",
		RequesterID: "stu-1",
		CategoryID:  1,
		Status:      domain.StatusPending,
		Requester:   requester,
		Category:    &domain.Category{ID: 1, Designation: "ATTESTATION", NotifTemplate: "Votre attestation est prête."},
	})

	status := domain.StatusValidated
	updated, err := f.service.UpdateByStaff(context.Background(), seeded.ID, ports.StaffUpdate{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != domain.StatusValidated {
		t.Errorf("status not applied")
	}
	if updated.ValidatedAt == nil {
		t.Fatalf("validation must set the timestamp")
	}

	// The requester gets exactly one notification row from the template.
	if len(f.notifs.CreateBatchCalls) != 1 || len(f.notifs.CreateBatchCalls[0]) != 1 {
		t.Fatalf("expected a single requester notification")
	}
	notif := f.notifs.CreateBatchCalls[0][0]
	if notif.UserID != "stu-1" || notif.Type != domain.NotifValidation {
		t.Errorf("wrong notification row: %+v", notif)
	}
	if notif.Content != "Votre attestation est prête." {
		t.Errorf("content must come from the category template, got %q", notif.Content)
	}

	// Dispatch targets the requester's own channel with their email.
	if len(f.dispatcher.Events) != 1 {
		t.Fatalf("expected one dispatched event")
	}
	evt := f.dispatcher.Events[0]
	if evt.TargetUserID != "stu-1" {
		t.Errorf("validation events go to the requester channel, got %q", evt.TargetUserID)
	}
	if len(evt.EmailRecipients) != 1 || evt.EmailRecipients[0] != "stu-1@univ.test" {
		t.Errorf("expected requester email, got %v", evt.EmailRecipients)
	}
}

func TestRequestServiceUpdateByStaffKeepsOriginalValidationTime(t *testing.T) {
	f := newRequestServiceFixture()
	first := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	seeded := f.requests.Seed(domain.DocumentRequest{
		Number:      "DOC-CD34",
		RequesterID: "stu-1",
		Status:      domain.StatusRefused,
		ValidatedAt: &first,
	})

	// Re-validating a request that was validated once before must not
	// move the original timestamp.
	status := domain.StatusValidated
	updated, err := f.service.UpdateByStaff(context.Background(), seeded.ID, ports.StaffUpdate{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ValidatedAt == nil || !updated.ValidatedAt.Equal(first) {
		t.Errorf("original validation timestamp must be preserved, got %v", updated.ValidatedAt)
	}
}

func TestRequestServiceUpdateByStaffRejectsUnknownStatus(t *testing.T) {
	f := newRequestServiceFixture()
	seeded := f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-1", Status: domain.StatusPending})

	bad := domain.RequestStatus("approved")
	_, err := f.service.UpdateByStaff(context.Background(), seeded.ID, ports.StaffUpdate{Status: &bad})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if len(f.requests.UpdateByStaffCalls) != 0 {
		t.Errorf("no write may happen for an unknown status")
	}
}

func TestRequestServiceGetScoping(t *testing.T) {
	f := newRequestServiceFixture()
	seeded := f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-1", Status: domain.StatusPending})

	tests := []struct {
		name    string
		caller  domain.User
		wantErr bool
	}{
		{name: "owner_sees_own", caller: domain.User{ID: "stu-1", Role: domain.RoleStudent}},
		{name: "staff_sees_all", caller: domain.User{ID: "staff-1", Role: domain.RoleStaff}},
		{name: "admin_sees_all", caller: domain.User{ID: "admin-1", Role: domain.RoleAdmin}},
		{name: "other_student_hidden", caller: domain.User{ID: "stu-2", Role: domain.RoleStudent}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Get(context.Background(), seeded.ID, tt.caller)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequestServiceListForcesOwnScope(t *testing.T) {
	f := newRequestServiceFixture()
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-1", Status: domain.StatusPending})
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-2", Status: domain.StatusPending})

	student := domain.User{ID: "stu-1", Role: domain.RoleStudent}
	items, _, err := f.service.List(context.Background(), domain.RequestFilter{
		RequesterID: "stu-2", // ignored for students
		PageQuery:   domain.PageQuery{All: true},
	}, student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].RequesterID != "stu-1" {
		t.Errorf("students must only see their own requests, got %+v", items)
	}
	if f.requests.LastFilter.All {
		t.Errorf("all=true must be stripped for students")
	}

	staff := domain.User{ID: "staff-1", Role: domain.RoleStaff}
	items, _, err = f.service.List(context.Background(), domain.RequestFilter{PageQuery: domain.PageQuery{All: true}}, staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("staff must see everything, got %d", len(items))
	}
}

func TestRequestServiceListFiltersByStatus(t *testing.T) {
	f := newRequestServiceFixture()
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-1", Status: domain.StatusPending})
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-2", Status: domain.StatusValidated})
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-3", Status: domain.StatusValidated})
	f.requests.Seed(domain.DocumentRequest{RequesterID: "stu-4", Status: domain.StatusRefused})

	staff := domain.User{ID: "staff-1", Role: domain.RoleStaff}
	items, meta, err := f.service.List(context.Background(), domain.RequestFilter{
		Status:    domain.StatusValidated,
		PageQuery: domain.PageQuery{All: true},
	}, staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("want the 2 validated requests, got %d", len(items))
	}
	for _, req := range items {
		if req.Status != domain.StatusValidated {
			t.Errorf("status filter leaked a %s request", req.Status)
		}
	}
	if meta.TotalItems != 2 {
		t.Errorf("meta must count the filtered set, got %d", meta.TotalItems)
	}
	if f.requests.LastFilter.Status != domain.StatusValidated {
		t.Errorf("status filter must reach the repository, got %q", f.requests.LastFilter.Status)
	}
}

func TestRequestServiceListValidation(t *testing.T) {
	f := newRequestServiceFixture()
	staff := domain.User{ID: "staff-1", Role: domain.RoleStaff}

	_, _, err := f.service.List(context.Background(), domain.RequestFilter{
		Status: "bogus",
	}, staff)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("unknown status must be rejected, got %v", err)
	}

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, _, err = f.service.List(context.Background(), domain.RequestFilter{
		StartDate: &start,
		EndDate:   &end,
	}, staff)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("inverted date range must be rejected, got %v", err)
	}

	_, _, err = f.service.List(context.Background(), domain.RequestFilter{
		PageQuery: domain.PageQuery{Page: -1},
	}, staff)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("negative page must be rejected, got %v", err)
	}
}
