package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, matricule, email, password_hash, last_name, first_name,
	phone, birth_info, position, role, level_id, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		phone     sql.NullString
		birthInfo sql.NullString
		position  sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Matricule, &u.Email, &u.PasswordHash, &u.LastName, &u.FirstName,
		&phone, &birthInfo, &position, &u.Role, &u.LevelID, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Phone = phone.String
	u.BirthInfo = birthInfo.String
	u.Position = position.String
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users
			(id, matricule, email, password_hash, last_name, first_name, phone, birth_info, position, role, level_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+userColumns,
		user.ID, user.Matricule, user.Email, user.PasswordHash, user.LastName, user.FirstName,
		nullable(user.Phone), nullable(user.BirthInfo), nullable(user.Position),
		user.Role, user.LevelID, user.Active,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND NOT deleted`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND NOT deleted`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// List shares the clamping behavior of the request listing through
// domain.PageQuery. Ordered newest account first.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, domain.PageMeta, error) {
	where := []string{"NOT deleted"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Role != "" {
		where = append(where, "role = "+arg(filter.Role))
	}
	if filter.Active != nil {
		where = append(where, "active = "+arg(*filter.Active))
	}
	if filter.Search != "" {
		like := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf(
			"(matricule ILIKE %[1]s OR last_name ILIKE %[1]s OR first_name ILIKE %[1]s)", like))
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+whereClause, args...).Scan(&total); err != nil {
		return nil, domain.PageMeta{}, mapError(err)
	}

	meta, offset := filter.PageQuery.Resolve(total)

	query := `SELECT ` + userColumns + ` FROM users` + whereClause + ` ORDER BY created_at DESC`
	if !filter.All {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(filter.PerPage), arg(offset))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.PageMeta{}, mapError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, domain.PageMeta{}, err
		}
		users = append(users, *user)
	}
	return users, meta, rows.Err()
}

func (r *UserRepository) ListIDsByRoleNot(ctx context.Context, excluded domain.Role) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM users WHERE role <> $1 AND NOT deleted`, excluded)
}

func (r *UserRepository) ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM users WHERE role = $1 AND NOT deleted`, role)
}

func (r *UserRepository) ListEmailsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	return r.listIDs(ctx, `SELECT email FROM users WHERE role = $1 AND NOT deleted`, role)
}

func (r *UserRepository) listIDs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			email      = COALESCE($2, email),
			last_name  = COALESCE($3, last_name),
			first_name = COALESCE($4, first_name),
			phone      = COALESCE($5, phone),
			position   = COALESCE($6, position),
			level_id   = COALESCE($7, level_id),
			active     = COALESCE($8, active),
			updated_at = NOW()
		WHERE id = $1 AND NOT deleted
		RETURNING `+userColumns,
		id, patch.Email, patch.LastName, patch.FirstName, patch.Phone,
		patch.Position, patch.LevelID, patch.Active,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT deleted`, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return nil
}

// nullable maps empty strings to NULL for optional text columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
