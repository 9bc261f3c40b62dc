// Package mocks provides mock implementations of port interfaces for
// testing. Services depend on the port interfaces, so tests inject
// these in-memory implementations instead of real adapters.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// MockRequestRepository implements ports.RequestRepository in memory
// with call tracking and error injection.
type MockRequestRepository struct {
	mu     sync.Mutex
	nextID int64
	Store  map[int64]*domain.DocumentRequest

	CreateCalls        []ports.CreateRequestParams
	UpdateByOwnerCalls []ports.OwnerPatch
	UpdateByStaffCalls []ports.StaffPatch
	SoftDeleteCalls    []int64
	LastFilter         domain.RequestFilter

	CreateError        error
	UpdateByOwnerError error
	UpdateByStaffError error
	SoftDeleteError    error
	GetByIDError       error
	ListError          error
}

var _ ports.RequestRepository = (*MockRequestRepository)(nil)

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{Store: make(map[int64]*domain.DocumentRequest)}
}

// Seed adds a request for test setup and returns it.
func (m *MockRequestRepository) Seed(req domain.DocumentRequest) *domain.DocumentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == 0 {
		m.nextID++
		req.ID = m.nextID
	} else if req.ID > m.nextID {
		m.nextID = req.ID
	}
	m.Store[req.ID] = &req
	return &req
}

func (m *MockRequestRepository) Create(ctx context.Context, params ports.CreateRequestParams) (*domain.DocumentRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, params)
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	m.nextID++
	req := &domain.DocumentRequest{
		ID:          m.nextID,
		Number:      fmt.Sprintf("DOC-%08X", m.nextID),
		RequesterID: params.RequesterID,
		CategoryID:  params.CategoryID,
		LevelID:     params.LevelID,
		Year:        params.Year,
		FatherName:  params.FatherName,
		MotherName:  params.MotherName,
		Status:      domain.StatusPending,
		RequestedAt: time.Now(),
		Infos:       params.Infos,
	}
	m.Store[req.ID] = req
	return req, nil
}

func (m *MockRequestRepository) UpdateByOwner(ctx context.Context, id int64, patch ports.OwnerPatch) (*domain.DocumentRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateByOwnerCalls = append(m.UpdateByOwnerCalls, patch)
	if m.UpdateByOwnerError != nil {
		return nil, m.UpdateByOwnerError
	}

	req, ok := m.Store[id]
	if !ok || req.Deleted {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	if patch.FatherName != nil {
		req.FatherName = *patch.FatherName
	}
	if patch.MotherName != nil {
		req.MotherName = *patch.MotherName
	}
	if patch.CategoryID != nil {
		req.CategoryID = *patch.CategoryID
	}
	if patch.ReplaceInfos {
		req.Infos = patch.Infos
	}
	return req, nil
}

func (m *MockRequestRepository) UpdateByStaff(ctx context.Context, id int64, patch ports.StaffPatch) (*domain.DocumentRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateByStaffCalls = append(m.UpdateByStaffCalls, patch)
	if m.UpdateByStaffError != nil {
		return nil, m.UpdateByStaffError
	}

	req, ok := m.Store[id]
	if !ok || req.Deleted {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	if patch.Paid != nil {
		req.Paid = *patch.Paid
	}
	if patch.ValidatedAt != nil {
		req.ValidatedAt = patch.ValidatedAt
	}
	return req, nil
}

func (m *MockRequestRepository) SoftDelete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SoftDeleteCalls = append(m.SoftDeleteCalls, id)
	if m.SoftDeleteError != nil {
		return m.SoftDeleteError
	}

	req, ok := m.Store[id]
	if !ok || req.Deleted {
		return fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	req.Deleted = true
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.DocumentRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	req, ok := m.Store[id]
	if !ok || req.Deleted {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	copied := *req
	return &copied, nil
}

func (m *MockRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.DocumentRequest, domain.PageMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	if m.ListError != nil {
		return nil, domain.PageMeta{}, m.ListError
	}

	var matched []domain.DocumentRequest
	for _, req := range m.Store {
		if req.Deleted {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		matched = append(matched, *req)
	}

	meta, offset := filter.PageQuery.Resolve(len(matched))
	if filter.All {
		return matched, meta, nil
	}
	if offset >= len(matched) {
		return nil, meta, nil
	}
	end := offset + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], meta, nil
}
