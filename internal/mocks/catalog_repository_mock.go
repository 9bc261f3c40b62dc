package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// MockCatalogRepository implements ports.CatalogRepository in memory.
type MockCatalogRepository struct {
	mu         sync.Mutex
	nextID     int64
	Categories map[int64]*domain.Category
	Levels     map[int64]*domain.Level
	Years      []domain.AcademicYear

	GetCategoryError error
}

var _ ports.CatalogRepository = (*MockCatalogRepository)(nil)

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		Categories: make(map[int64]*domain.Category),
		Levels:     make(map[int64]*domain.Level),
	}
}

func (m *MockCatalogRepository) SeedCategory(c domain.Category) *domain.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	} else if c.ID > m.nextID {
		m.nextID = c.ID
	}
	m.Categories[c.ID] = &c
	return &c
}

func (m *MockCatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetCategoryError != nil {
		return nil, m.GetCategoryError
	}
	c, ok := m.Categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
	}
	copied := *c
	return &copied, nil
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context, visibleOnly bool) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.Categories {
		if visibleOnly && !c.Visible {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *MockCatalogRepository) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	return m.SeedCategory(c), nil
}

func (m *MockCatalogRepository) UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[c.ID]; !ok {
		return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, c.ID)
	}
	m.Categories[c.ID] = &c
	return &c, nil
}

func (m *MockCatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCatalogRepository) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Levels[id]
	if !ok {
		return nil, fmt.Errorf("%w: level %d", domain.ErrNotFound, id)
	}
	copied := *l
	return &copied, nil
}

func (m *MockCatalogRepository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Level
	for _, l := range m.Levels {
		out = append(out, *l)
	}
	return out, nil
}

func (m *MockCatalogRepository) CreateLevel(ctx context.Context, designation string) (*domain.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l := &domain.Level{ID: m.nextID, Designation: designation}
	m.Levels[l.ID] = l
	copied := *l
	return &copied, nil
}

func (m *MockCatalogRepository) UpdateLevel(ctx context.Context, id int64, designation string) (*domain.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Levels[id]
	if !ok {
		return nil, fmt.Errorf("%w: level %d", domain.ErrNotFound, id)
	}
	l.Designation = designation
	copied := *l
	return &copied, nil
}

func (m *MockCatalogRepository) DeleteLevel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Levels[id]; !ok {
		return fmt.Errorf("%w: level %d", domain.ErrNotFound, id)
	}
	delete(m.Levels, id)
	return nil
}

func (m *MockCatalogRepository) ListYears(ctx context.Context) ([]domain.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AcademicYear(nil), m.Years...), nil
}
