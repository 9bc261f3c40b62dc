package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// RequestService owns the document-request lifecycle. Notification
// fan-out and dispatch happen after the request mutation is committed
// and never undo it.
type RequestService struct {
	requests   ports.RequestRepository
	catalog    ports.CatalogRepository
	users      ports.UserRepository
	notifier   ports.Notifier
	dispatcher ports.Dispatcher
}

var _ ports.RequestService = (*RequestService)(nil)

func NewRequestService(
	requests ports.RequestRepository,
	catalog ports.CatalogRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	dispatcher ports.Dispatcher,
) *RequestService {
	return &RequestService{
		requests:   requests,
		catalog:    catalog,
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

func (s *RequestService) Create(ctx context.Context, params ports.CreateRequestParams) (*domain.DocumentRequest, error) {
	category, err := s.catalog.GetCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	// Supplementary info only exists for categories that ask for it.
	if !category.RequiresInfo {
		params.Infos = nil
	}

	request, err := s.requests.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("New document request to review (N°: %s, category: %s).",
		request.Number, category.Designation)

	notifs, err := s.notifier.NotifyRoleExcept(ctx, request, domain.RoleStudent, content, domain.NotifNewRequest)
	if err != nil {
		// The request is committed; a failed fan-out is secondary.
		log.Printf("request service: fan-out failed for request %s: %v", request.Number, err)
	}

	evt := ports.NotificationEvent{
		Kind:    ports.PayloadRequestNotification,
		Type:    domain.NotifNewRequest,
		Request: request,
	}
	if len(notifs) > 0 {
		evt.Notification = &notifs[0]
	} else {
		evt.Kind = ports.PayloadPlainMessage
		evt.Message = content
	}

	if emails, err := s.users.ListEmailsByRole(ctx, domain.RoleAdmin); err != nil {
		log.Printf("request service: listing admin emails failed: %v", err)
	} else if len(emails) > 0 {
		requester := request.Number
		if request.Requester != nil {
			requester = fmt.Sprintf("%s (matricule: %s)", request.Requester.FullName(), request.Requester.Matricule)
		}
		evt.EmailRecipients = emails
		evt.EmailSubject = fmt.Sprintf("Student request received: %s", category.Designation)
		evt.EmailBody = fmt.Sprintf(
			"A new document request was just submitted by %s. The request concerns: %s. Please review it from the dashboard.",
			requester, category.Designation)
	}

	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		log.Printf("request service: dispatch failed for request %s: %v", request.Number, err)
	}

	return request, nil
}

func (s *RequestService) UpdateByOwner(ctx context.Context, id int64, callerID string, upd ports.OwnerUpdate) (*domain.DocumentRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != callerID {
		// Do not reveal other users' requests.
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	if request.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: request %s is no longer editable", domain.ErrInvalidArgument, request.Number)
	}

	categoryID := request.CategoryID
	if upd.CategoryID != nil {
		categoryID = *upd.CategoryID
	}
	category, err := s.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	patch := ports.OwnerPatch{
		FatherName: upd.FatherName,
		MotherName: upd.MotherName,
		CategoryID: upd.CategoryID,
	}
	// Provided info is ignored unless the (possibly new) category wants it.
	if upd.Infos != nil && category.RequiresInfo {
		patch.ReplaceInfos = true
		patch.Infos = upd.Infos
	}

	return s.requests.UpdateByOwner(ctx, id, patch)
}

func (s *RequestService) UpdateByStaff(ctx context.Context, id int64, upd ports.StaffUpdate) (*domain.DocumentRequest, error) {
	if upd.Status != nil && !domain.ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, *upd.Status)
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := ports.StaffPatch{Status: upd.Status, Paid: upd.Paid}

	entersValidated := upd.Status != nil &&
		*upd.Status == domain.StatusValidated &&
		request.Status != domain.StatusValidated
	if entersValidated && request.ValidatedAt == nil {
		now := time.Now()
		patch.ValidatedAt = &now
	}

	updated, err := s.requests.UpdateByStaff(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if entersValidated {
		s.notifyValidation(ctx, updated)
	}

	return updated, nil
}

// notifyValidation runs after the status change is committed. Failures
// here are logged and swallowed: the validation has already happened.
func (s *RequestService) notifyValidation(ctx context.Context, request *domain.DocumentRequest) {
	notif, err := s.notifier.NotifyRequester(ctx, request)
	if err != nil {
		log.Printf("request service: validation notification failed for request %s: %v", request.Number, err)
	}

	evt := ports.NotificationEvent{
		Kind:         ports.PayloadRequestNotification,
		Type:         domain.NotifValidation,
		Notification: notif,
		Request:      request,
		TargetUserID: request.RequesterID,
	}
	if notif == nil {
		evt.Kind = ports.PayloadPlainMessage
		evt.Message = fmt.Sprintf("Your document request (N°: %s) has been validated.", request.Number)
	}

	if request.Requester != nil && request.Requester.Email != "" {
		designation := ""
		if request.Category != nil {
			designation = request.Category.Designation
		}
		evt.EmailRecipients = []string{request.Requester.Email}
		evt.EmailSubject = fmt.Sprintf("Your document request (N°: %s) has been validated", request.Number)
		evt.EmailBody = fmt.Sprintf(
			"We are pleased to inform you that your request (N°: %s) concerning %s has been reviewed and approved. You may now collect it from the registrar's office.",
			request.Number, designation)
	}

	if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
		log.Printf("request service: validation dispatch failed for request %s: %v", request.Number, err)
	}
}

func (s *RequestService) Delete(ctx context.Context, id int64) error {
	return s.requests.SoftDelete(ctx, id)
}

func (s *RequestService) Get(ctx context.Context, id int64, caller domain.User) (*domain.DocumentRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.IsStaff() && request.RequesterID != caller.ID {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	return request, nil
}

func (s *RequestService) List(ctx context.Context, filter domain.RequestFilter, caller domain.User) ([]domain.DocumentRequest, domain.PageMeta, error) {
	filter.PageQuery = filter.PageQuery.Normalized()
	if err := filter.PageQuery.Validate(); err != nil {
		return nil, domain.PageMeta{}, err
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, domain.PageMeta{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, filter.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.PageMeta{}, fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidArgument)
	}

	// Students only ever see their own requests, whatever they ask for.
	if !caller.Role.IsStaff() {
		filter.RequesterID = caller.ID
		filter.All = false
	}

	return s.requests.List(ctx, filter)
}
