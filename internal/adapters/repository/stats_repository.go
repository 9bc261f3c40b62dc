package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type StatsRepository struct {
	db *sql.DB
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Dashboard computes the staff dashboard in two queries: one row of
// conditional aggregates and one per-category breakdown over the
// trailing twelve months. Revenue is COALESCEd so an empty table
// reports 0 rather than NULL.
func (r *StatsRepository) Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearAgo := now.AddDate(0, -12, 0)

	var stats domain.DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted),
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted AND status = 'pending'),
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted AND status = 'validated'),
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted AND status = 'refused'),
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted AND paid),
			(SELECT COUNT(*) FROM users WHERE NOT deleted AND role = 'student' AND active),
			(SELECT COUNT(*) FROM users WHERE NOT deleted AND role = 'student' AND NOT active),
			(SELECT COALESCE(SUM(c.price), 0)
				FROM document_requests r JOIN categories c ON c.id = r.category_id
				WHERE NOT r.deleted AND r.paid),
			(SELECT COUNT(*) FROM document_requests WHERE NOT deleted AND requested_at >= $1),
			(SELECT COUNT(*) FROM document_requests
				WHERE NOT deleted AND status = 'validated' AND validated_at >= $1)`,
		monthStart,
	).Scan(
		&stats.TotalRequests, &stats.Pending, &stats.Validated, &stats.Refused,
		&stats.Paid, &stats.Students, &stats.StudentsPending, &stats.TotalRevenue,
		&stats.RequestsThisMonth, &stats.ValidatedThisMonth,
	)
	if err != nil {
		return nil, mapError(err)
	}

	stats.ByCategory, err = r.byCategory(ctx, yearAgo)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// byCategory counts requests per category over the trailing twelve
// months. Categories without a recent request still appear, with 0.
func (r *StatsRepository) byCategory(ctx context.Context, since time.Time) ([]domain.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.designation, COUNT(r.id)
		FROM categories c
		LEFT JOIN document_requests r
			ON r.category_id = c.id AND NOT r.deleted AND r.requested_at >= $1
		GROUP BY c.id, c.designation
		ORDER BY c.designation`, since)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
