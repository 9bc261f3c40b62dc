package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("stream closed unexpectedly")
		}
		return msg
	default:
		t.Fatal("no message buffered")
	}
	return nil
}

func TestHubPublishReachesChannelSubscribers(t *testing.T) {
	hub := NewHub()

	a, cancelA := hub.Subscribe("admin-staff")
	defer cancelA()
	b, cancelB := hub.Subscribe("admin-staff")
	defer cancelB()
	other, cancelOther := hub.Subscribe("client-stu-1")
	defer cancelOther()

	if err := hub.Publish(context.Background(), "admin-staff", "new-request", map[string]string{"id": "7"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, ch := range []<-chan []byte{a, b} {
		var env envelope
		if err := json.Unmarshal(receive(t, ch), &env); err != nil {
			t.Fatalf("invalid envelope: %v", err)
		}
		if env.Event != "new-request" {
			t.Errorf("want event new-request, got %q", env.Event)
		}
		var payload map[string]string
		if err := json.Unmarshal(env.Payload, &payload); err != nil || payload["id"] != "7" {
			t.Errorf("payload not preserved: %s", env.Payload)
		}
	}

	select {
	case msg := <-other:
		t.Errorf("other channel must not receive the message: %s", msg)
	default:
	}
}

func TestHubCancelDetaches(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("client-stu-1")
	if got := hub.SubscriberCount("client-stu-1"); got != 1 {
		t.Fatalf("want 1 subscriber, got %d", got)
	}

	cancel()
	cancel() // second call is a no-op

	if got := hub.SubscriberCount("client-stu-1"); got != 0 {
		t.Errorf("want 0 subscribers after cancel, got %d", got)
	}
	if _, ok := <-ch; ok {
		t.Errorf("stream must be closed after cancel")
	}

	if err := hub.Publish(context.Background(), "client-stu-1", "message", "late"); err != nil {
		t.Errorf("publishing to an empty channel must not fail: %v", err)
	}
}

func TestHubSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("admin-staff")
	defer cancel()

	// Overfill the buffer; the extra publishes must return immediately.
	for i := 0; i < subscriberBuffer+5; i++ {
		if err := hub.Publish(context.Background(), "admin-staff", "message", i); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	if got := len(ch); got != subscriberBuffer {
		t.Errorf("want a full buffer of %d, got %d", subscriberBuffer, got)
	}
}

type stubPublisher struct {
	calls int
	err   error
}

func (s *stubPublisher) Publish(context.Context, string, string, any) error {
	s.calls++
	return s.err
}

func TestFanoutPublishesToAllTargets(t *testing.T) {
	failing := &stubPublisher{err: errors.New("redis down")}
	healthy := &stubPublisher{}
	fanout := NewFanoutPublisher(failing, healthy)

	err := fanout.Publish(context.Background(), "admin-staff", "message", "hello")
	if !errors.Is(err, failing.err) {
		t.Errorf("want the failing target's error surfaced, got %v", err)
	}
	if failing.calls != 1 || healthy.calls != 1 {
		t.Errorf("every target must be attempted: failing=%d healthy=%d", failing.calls, healthy.calls)
	}
}
