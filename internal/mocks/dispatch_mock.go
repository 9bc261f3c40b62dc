package mocks

import (
	"context"
	"sync"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// MockDispatcher records dispatched events.
type MockDispatcher struct {
	mu     sync.Mutex
	Events []ports.NotificationEvent

	DispatchError error
}

var _ ports.Dispatcher = (*MockDispatcher)(nil)

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, evt ports.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, evt)
	return m.DispatchError
}

// publishCall is one recorded ChannelPublisher.Publish invocation.
type publishCall struct {
	Channel string
	Event   string
	Payload any
}

// MockChannelPublisher records publishes and optionally fails them.
type MockChannelPublisher struct {
	mu    sync.Mutex
	Calls []publishCall

	PublishError error
}

var _ ports.ChannelPublisher = (*MockChannelPublisher)(nil)

func NewMockChannelPublisher() *MockChannelPublisher {
	return &MockChannelPublisher{}
}

func (m *MockChannelPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, publishCall{Channel: channel, Event: event, Payload: payload})
	return m.PublishError
}

// Channels returns the channel names published to, in order.
func (m *MockChannelPublisher) Channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Channel)
	}
	return out
}

// MockEmailEnqueuer records enqueued emails and optionally fails.
type MockEmailEnqueuer struct {
	mu     sync.Mutex
	Queued []ports.EmailQueuedEvent

	EnqueueError error
}

var _ ports.EmailEnqueuer = (*MockEmailEnqueuer)(nil)

func NewMockEmailEnqueuer() *MockEmailEnqueuer {
	return &MockEmailEnqueuer{}
}

func (m *MockEmailEnqueuer) EnqueueEmail(ctx context.Context, evt ports.EmailQueuedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueError != nil {
		return m.EnqueueError
	}
	m.Queued = append(m.Queued, evt)
	return nil
}
