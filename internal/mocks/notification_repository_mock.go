package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// MockNotificationRepository implements ports.NotificationRepository in
// memory, assigning ids in insertion order.
type MockNotificationRepository struct {
	mu     sync.Mutex
	nextID int64
	Store  []domain.Notification

	CreateBatchCalls [][]domain.Notification
	MarkSeenCalls    [][]int64

	CreateBatchError error
	ListError        error
	MarkSeenError    error
}

var _ ports.NotificationRepository = (*MockNotificationRepository)(nil)

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifs []domain.Notification) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateBatchCalls = append(m.CreateBatchCalls, notifs)
	if m.CreateBatchError != nil {
		return nil, m.CreateBatchError
	}

	created := make([]domain.Notification, 0, len(notifs))
	for _, n := range notifs {
		m.nextID++
		n.ID = m.nextID
		n.CreatedAt = time.Now()
		m.Store = append(m.Store, n)
		created = append(created, n)
	}
	return created, nil
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.Notification
	for i := len(m.Store) - 1; i >= 0; i-- {
		if m.Store[i].UserID == userID {
			out = append(out, m.Store[i])
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) MarkSeen(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkSeenCalls = append(m.MarkSeenCalls, ids)
	if m.MarkSeenError != nil {
		return 0, m.MarkSeenError
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var updated int64
	for i := range m.Store {
		n := &m.Store[i]
		if wanted[n.ID] && n.UserID == ownerID {
			n.Seen = true
			updated++
		}
	}
	return updated, nil
}
