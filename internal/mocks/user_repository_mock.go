package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository in memory.
type MockUserRepository struct {
	mu    sync.Mutex
	Store map[string]*domain.User

	CreateCalls           []domain.User
	ListIDsByRoleNotCalls []domain.Role
	ListIDsByRoleCalls    []domain.Role
	UpdateCalls           []ports.UserPatch

	CreateError           error
	FindError             error
	ListError             error
	ListIDsByRoleNotError error
	ListIDsByRoleError    error
	ListEmailsByRoleError error
	UpdateError           error
	SoftDeleteError       error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Store: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Seed(user domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Store[user.ID] = &user
	return &user
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	for _, existing := range m.Store {
		if existing.Email == user.Email || existing.Matricule == user.Matricule {
			return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
	}
	m.Store[user.ID] = &user
	return &user, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, user := range m.Store {
		if user.Email == email && !user.Deleted {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	user, ok := m.Store[id]
	if !ok || user.Deleted {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, domain.PageMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, domain.PageMeta{}, m.ListError
	}

	var matched []domain.User
	for _, user := range m.Store {
		if user.Deleted {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		matched = append(matched, *user)
	}
	meta, _ := filter.PageQuery.Resolve(len(matched))
	return matched, meta, nil
}

func (m *MockUserRepository) ListIDsByRoleNot(ctx context.Context, excluded domain.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListIDsByRoleNotCalls = append(m.ListIDsByRoleNotCalls, excluded)
	if m.ListIDsByRoleNotError != nil {
		return nil, m.ListIDsByRoleNotError
	}
	var ids []string
	for _, user := range m.Store {
		if user.Role != excluded && !user.Deleted {
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

func (m *MockUserRepository) ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListIDsByRoleCalls = append(m.ListIDsByRoleCalls, role)
	if m.ListIDsByRoleError != nil {
		return nil, m.ListIDsByRoleError
	}
	var ids []string
	for _, user := range m.Store {
		if user.Role == role && !user.Deleted {
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

func (m *MockUserRepository) ListEmailsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListEmailsByRoleError != nil {
		return nil, m.ListEmailsByRoleError
	}
	var emails []string
	for _, user := range m.Store {
		if user.Role == role && !user.Deleted {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, patch)
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	user, ok := m.Store[id]
	if !ok || user.Deleted {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Position != nil {
		user.Position = *patch.Position
	}
	if patch.LevelID != nil {
		user.LevelID = patch.LevelID
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SoftDeleteError != nil {
		return m.SoftDeleteError
	}
	user, ok := m.Store[id]
	if !ok || user.Deleted {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	user.Deleted = true
	return nil
}
