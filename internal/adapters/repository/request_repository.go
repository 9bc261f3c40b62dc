package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// numberAttempts bounds the retries when a generated request number
// collides with an existing one.
const numberAttempts = 5

type RequestRepository struct {
	db *sql.DB
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// newRequestNumber returns a DOC-XXXXXXXX token. Uniqueness is enforced
// by the column constraint; Create retries on collision.
func newRequestNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "DOC-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func (r *RequestRepository) Create(ctx context.Context, params ports.CreateRequestParams) (*domain.DocumentRequest, error) {
	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := newRequestNumber()
		if err != nil {
			return nil, err
		}

		id, err := r.insert(ctx, number, params)
		if err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, mapError(err)
		}
		return r.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("request number generation exhausted: %w", mapError(lastErr))
}

// insert writes the request and its supplementary info rows in one
// transaction; a partial create is never observable.
func (r *RequestRepository) insert(ctx context.Context, number string, params ports.CreateRequestParams) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO document_requests
			(number, requester_id, category_id, level_id, academic_year, father_name, mother_name, status, paid, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
		RETURNING id`,
		number,
		params.RequesterID,
		params.CategoryID,
		params.LevelID,
		params.Year,
		params.FatherName,
		params.MotherName,
		domain.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, info := range params.Infos {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO supplementary_infos (request_id, level, academic_year) VALUES ($1, $2, $3)`,
			id, info.Level, info.AcademicYear,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RequestRepository) UpdateByOwner(ctx context.Context, id int64, patch ports.OwnerPatch) (*domain.DocumentRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE document_requests SET
			father_name = COALESCE($2, father_name),
			mother_name = COALESCE($3, mother_name),
			category_id = COALESCE($4, category_id),
			updated_at  = NOW()
		WHERE id = $1 AND NOT deleted`,
		id, patch.FatherName, patch.MotherName, patch.CategoryID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}

	if patch.ReplaceInfos {
		// Full replacement: the old rows are gone even if the new set
		// is smaller or empty.
		if _, err := tx.ExecContext(ctx, `DELETE FROM supplementary_infos WHERE request_id = $1`, id); err != nil {
			return nil, mapError(err)
		}
		for _, info := range patch.Infos {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO supplementary_infos (request_id, level, academic_year) VALUES ($1, $2, $3)`,
				id, info.Level, info.AcademicYear,
			)
			if err != nil {
				return nil, mapError(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *RequestRepository) UpdateByStaff(ctx context.Context, id int64, patch ports.StaffPatch) (*domain.DocumentRequest, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE document_requests SET
			status       = COALESCE($2, status),
			paid         = COALESCE($3, paid),
			validated_at = COALESCE($4, validated_at),
			updated_at   = NOW()
		WHERE id = $1 AND NOT deleted`,
		id, patch.Status, patch.Paid, patch.ValidatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

func (r *RequestRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE document_requests SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: request %d", domain.ErrNotFound, id)
	}
	return nil
}

const requestColumns = `
	r.id, r.number, r.requester_id, r.category_id, r.level_id, r.academic_year,
	r.father_name, r.mother_name, r.status, r.paid, r.requested_at, r.validated_at,
	r.created_at, r.updated_at,
	u.id, u.matricule, u.email, u.last_name, u.first_name, u.role, u.active, u.created_at,
	c.id, c.designation, c.slug, c.kind, c.price, c.requires_info, c.requires_parents, c.visible, c.notif_template`

const requestFrom = `
	FROM document_requests r
	JOIN users u ON u.id = r.requester_id
	JOIN categories c ON c.id = r.category_id`

func scanRequest(row interface{ Scan(...any) error }) (*domain.DocumentRequest, error) {
	var (
		req       domain.DocumentRequest
		requester domain.User
		category  domain.Category
		slug      sql.NullString
		kind      sql.NullString
		father    sql.NullString
		mother    sql.NullString
	)
	err := row.Scan(
		&req.ID, &req.Number, &req.RequesterID, &req.CategoryID, &req.LevelID, &req.Year,
		&father, &mother, &req.Status, &req.Paid, &req.RequestedAt, &req.ValidatedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&requester.ID, &requester.Matricule, &requester.Email, &requester.LastName,
		&requester.FirstName, &requester.Role, &requester.Active, &requester.CreatedAt,
		&category.ID, &category.Designation, &slug, &kind, &category.Price,
		&category.RequiresInfo, &category.RequiresParents, &category.Visible, &category.NotifTemplate,
	)
	if err != nil {
		return nil, err
	}
	req.FatherName = father.String
	req.MotherName = mother.String
	category.Slug = slug.String
	category.Kind = domain.CategoryKind(kind.String)
	req.Requester = &requester
	req.Category = &category
	return &req, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.DocumentRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+requestFrom+` WHERE r.id = $1 AND NOT r.deleted`, id)

	req, err := scanRequest(row)
	if err != nil {
		return nil, mapError(err)
	}

	infos, err := r.loadInfos(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	req.Infos = infos
	return req, nil
}

func (r *RequestRepository) loadInfos(ctx context.Context, requestID int64) ([]domain.SupplementaryInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, level, academic_year FROM supplementary_infos WHERE request_id = $1 ORDER BY id`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.SupplementaryInfo
	for rows.Next() {
		var info domain.SupplementaryInfo
		if err := rows.Scan(&info.ID, &info.RequestID, &info.Level, &info.AcademicYear); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// List applies the AND-combined filters, counts the matching set, then
// fetches one clamped page ordered by request date descending.
func (r *RequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.DocumentRequest, domain.PageMeta, error) {
	where := []string{"NOT r.deleted"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.RequesterID != "" {
		where = append(where, "r.requester_id = "+arg(filter.RequesterID))
	}
	if filter.Status != "" {
		where = append(where, "r.status = "+arg(filter.Status))
	}
	if filter.CategoryID != nil {
		where = append(where, "r.category_id = "+arg(*filter.CategoryID))
	}
	if filter.StartDate != nil {
		where = append(where, "r.requested_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "r.requested_at <= "+arg(*filter.EndDate))
	}
	if filter.Search != "" {
		like := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf(
			"(u.last_name ILIKE %[1]s OR u.first_name ILIKE %[1]s OR u.matricule ILIKE %[1]s OR r.number ILIKE %[1]s)", like))
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+requestFrom+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, domain.PageMeta{}, mapError(err)
	}

	meta, offset := filter.PageQuery.Resolve(total)

	query := `SELECT ` + requestColumns + requestFrom + whereClause + ` ORDER BY r.requested_at DESC`
	if !filter.All {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(filter.PerPage), arg(offset))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.PageMeta{}, mapError(err)
	}
	defer rows.Close()

	var requests []domain.DocumentRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, domain.PageMeta{}, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PageMeta{}, err
	}

	if err := r.attachInfos(ctx, requests); err != nil {
		return nil, domain.PageMeta{}, err
	}

	return requests, meta, nil
}

// attachInfos loads the supplementary rows for a page of requests in a
// single query instead of one per request.
func (r *RequestRepository) attachInfos(ctx context.Context, requests []domain.DocumentRequest) error {
	if len(requests) == 0 {
		return nil
	}

	index := make(map[int64]*domain.DocumentRequest, len(requests))
	ids := make([]int64, 0, len(requests))
	for i := range requests {
		index[requests[i].ID] = &requests[i]
		ids = append(ids, requests[i].ID)
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, level, academic_year FROM supplementary_infos WHERE request_id IN (`+
			strings.Join(placeholders, ", ")+`) ORDER BY id`, args...)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var info domain.SupplementaryInfo
		if err := rows.Scan(&info.ID, &info.RequestID, &info.Level, &info.AcademicYear); err != nil {
			return err
		}
		if req, ok := index[info.RequestID]; ok {
			req.Infos = append(req.Infos, info)
		}
	}
	return rows.Err()
}
