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

func TestDispatcherChannelRouting(t *testing.T) {
	tests := []struct {
		name        string
		evt         ports.NotificationEvent
		wantChannel string
	}{
		{
			name: "new_request_goes_to_staff_channel",
			evt: ports.NotificationEvent{
				Kind:         ports.PayloadRequestNotification,
				Type:         domain.NotifNewRequest,
				Notification: &domain.Notification{ID: 1},
			},
			wantChannel: services.StaffChannel,
		},
		{
			name: "registration_goes_to_staff_channel",
			evt: ports.NotificationEvent{
				Kind:    ports.PayloadPlainMessage,
				Type:    domain.NotifRegistration,
				Message: "New registration",
			},
			wantChannel: services.StaffChannel,
		},
		{
			name: "validation_goes_to_requester_channel",
			evt: ports.NotificationEvent{
				Kind:         ports.PayloadRequestNotification,
				Type:         domain.NotifValidation,
				Notification: &domain.Notification{ID: 2},
				TargetUserID: "stu-42",
			},
			wantChannel: services.ClientChannel("stu-42"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels := mocks.NewMockChannelPublisher()
			mail := mocks.NewMockEmailEnqueuer()
			d := services.NewMultiChannelDispatcher(channels, mail)

			if err := d.Dispatch(context.Background(), tt.evt); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := channels.Channels()
			if len(got) != 1 || got[0] != tt.wantChannel {
				t.Errorf("want channel %q, got %v", tt.wantChannel, got)
			}
		})
	}
}

func TestDispatcherEnqueuesEmailOnlyWithRecipients(t *testing.T) {
	channels := mocks.NewMockChannelPublisher()
	mail := mocks.NewMockEmailEnqueuer()
	d := services.NewMultiChannelDispatcher(channels, mail)

	evt := ports.NotificationEvent{
		Kind:    ports.PayloadPlainMessage,
		Type:    domain.NotifNewRequest,
		Message: "no email for this one",
	}
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mail.Queued) != 0 {
		t.Errorf("no email may be queued without recipients")
	}

	evt.EmailRecipients = []string{"admin@univ.test"}
	evt.EmailSubject = "subject"
	evt.EmailBody = "body"
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mail.Queued) != 1 {
		t.Fatalf("expected one queued email, got %d", len(mail.Queued))
	}
	queued := mail.Queued[0]
	if queued.ID == "" {
		t.Errorf("queued email must carry a generated id")
	}
	if len(queued.Recipients) != 1 || queued.Subject != "subject" {
		t.Errorf("queued email lost its fields: %+v", queued)
	}
}

func TestDispatcherPublishFailureStillQueuesEmail(t *testing.T) {
	channels := mocks.NewMockChannelPublisher()
	channels.PublishError = errors.New("redis down")
	mail := mocks.NewMockEmailEnqueuer()
	d := services.NewMultiChannelDispatcher(channels, mail)

	evt := ports.NotificationEvent{
		Kind:            ports.PayloadPlainMessage,
		Type:            domain.NotifNewRequest,
		Message:         "hello",
		EmailRecipients: []string{"admin@univ.test"},
	}

	err := d.Dispatch(context.Background(), evt)
	if !errors.Is(err, domain.ErrDependencyFailure) {
		t.Errorf("expected ErrDependencyFailure, got %v", err)
	}
	if len(mail.Queued) != 1 {
		t.Errorf("email must still be queued when the channel publish fails")
	}
}

func TestDispatcherRejectsUnknownKind(t *testing.T) {
	channels := mocks.NewMockChannelPublisher()
	mail := mocks.NewMockEmailEnqueuer()
	d := services.NewMultiChannelDispatcher(channels, mail)

	err := d.Dispatch(context.Background(), ports.NotificationEvent{Kind: "mystery"})
	if !errors.Is(err, domain.ErrDependencyFailure) {
		t.Errorf("expected wrapped dependency failure, got %v", err)
	}
	if len(channels.Calls) != 0 {
		t.Errorf("nothing may be published for an unknown payload kind")
	}
}
