package services

import (
	"context"
	"fmt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// CatalogService manages the document-category and academic-level
// reference data. Read-mostly; writes are admin only (enforced at the
// routing layer).
type CatalogService struct {
	catalog ports.CatalogRepository
}

func NewCatalogService(catalog ports.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.catalog.GetCategory(ctx, id)
}

// ListCategories returns all categories for staff and only the visible
// ones for students.
func (s *CatalogService) ListCategories(ctx context.Context, caller domain.User) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx, !caller.Role.IsStaff())
}

func (s *CatalogService) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.Designation == "" {
		return nil, fmt.Errorf("%w: designation is required", domain.ErrInvalidArgument)
	}
	if c.Price < 0 {
		return nil, fmt.Errorf("%w: price may not be negative", domain.ErrInvalidArgument)
	}
	return s.catalog.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.Designation == "" {
		return nil, fmt.Errorf("%w: designation is required", domain.ErrInvalidArgument)
	}
	return s.catalog.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.catalog.DeleteCategory(ctx, id)
}

func (s *CatalogService) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	return s.catalog.GetLevel(ctx, id)
}

func (s *CatalogService) ListLevels(ctx context.Context) ([]domain.Level, error) {
	return s.catalog.ListLevels(ctx)
}

func (s *CatalogService) CreateLevel(ctx context.Context, designation string) (*domain.Level, error) {
	if designation == "" {
		return nil, fmt.Errorf("%w: designation is required", domain.ErrInvalidArgument)
	}
	return s.catalog.CreateLevel(ctx, designation)
}

func (s *CatalogService) UpdateLevel(ctx context.Context, id int64, designation string) (*domain.Level, error) {
	if designation == "" {
		return nil, fmt.Errorf("%w: designation is required", domain.ErrInvalidArgument)
	}
	return s.catalog.UpdateLevel(ctx, id, designation)
}

func (s *CatalogService) DeleteLevel(ctx context.Context, id int64) error {
	return s.catalog.DeleteLevel(ctx, id)
}

func (s *CatalogService) ListYears(ctx context.Context) ([]domain.AcademicYear, error) {
	return s.catalog.ListYears(ctx)
}
