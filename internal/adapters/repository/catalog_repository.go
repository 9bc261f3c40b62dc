package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// CatalogRepository stores the reference data behind requests: document
// categories, study levels and academic years.
type CatalogRepository struct {
	db *sql.DB
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const categoryColumns = `id, designation, slug, kind, price, requires_info, requires_parents, visible, notif_template`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Designation, &c.Slug, &c.Kind, &c.Price,
		&c.RequiresInfo, &c.RequiresParents, &c.Visible, &c.NotifTemplate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context, visibleOnly bool) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if visibleOnly {
		query += ` WHERE visible`
	}
	query += ` ORDER BY designation`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, *c)
	}
	return cats, rows.Err()
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (designation, slug, kind, price, requires_info, requires_parents, visible, notif_template)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Designation, c.Slug, c.Kind, c.Price, c.RequiresInfo, c.RequiresParents, c.Visible, c.NotifTemplate,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE categories SET
			designation      = $2,
			slug             = $3,
			kind             = $4,
			price            = $5,
			requires_info    = $6,
			requires_parents = $7,
			visible          = $8,
			notif_template   = $9
		WHERE id = $1
		RETURNING `+categoryColumns,
		c.ID, c.Designation, c.Slug, c.Kind, c.Price, c.RequiresInfo, c.RequiresParents, c.Visible, c.NotifTemplate,
	)
	updated, err := scanCategory(row)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM categories WHERE id = $1`, id, "category")
}

func (r *CatalogRepository) GetLevel(ctx context.Context, id int64) (*domain.Level, error) {
	var l domain.Level
	err := r.db.QueryRowContext(ctx,
		`SELECT id, designation FROM levels WHERE id = $1`, id).Scan(&l.ID, &l.Designation)
	if err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *CatalogRepository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, designation FROM levels ORDER BY designation`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var levels []domain.Level
	for rows.Next() {
		var l domain.Level
		if err := rows.Scan(&l.ID, &l.Designation); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *CatalogRepository) CreateLevel(ctx context.Context, designation string) (*domain.Level, error) {
	var l domain.Level
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO levels (designation) VALUES ($1) RETURNING id, designation`,
		designation).Scan(&l.ID, &l.Designation)
	if err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *CatalogRepository) UpdateLevel(ctx context.Context, id int64, designation string) (*domain.Level, error) {
	var l domain.Level
	err := r.db.QueryRowContext(ctx,
		`UPDATE levels SET designation = $2 WHERE id = $1 RETURNING id, designation`,
		id, designation).Scan(&l.ID, &l.Designation)
	if err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *CatalogRepository) DeleteLevel(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM levels WHERE id = $1`, id, "level")
}

func (r *CatalogRepository) ListYears(ctx context.Context) ([]domain.AcademicYear, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT year FROM academic_years ORDER BY year DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var years []domain.AcademicYear
	for rows.Next() {
		var y domain.AcademicYear
		if err := rows.Scan(&y.Year); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (r *CatalogRepository) deleteByID(ctx context.Context, query string, id int64, kind string) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, kind, id)
	}
	return nil
}
