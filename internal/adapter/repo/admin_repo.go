package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"campusconnect/internal/domain"
	"campusconnect/internal/infra"
	"campusconnect/internal/sqlinline"
)

// AdminRepositoryPG implements domain.AdminRepository backed by PostgreSQL.
type AdminRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewAdminRepository(sql infra.SQLExecutor) *AdminRepositoryPG {
	return &AdminRepositoryPG{sql: sql}
}

// Upsert creates the administrator or refreshes its credentials and contact fields.
func (r *AdminRepositoryPG) Upsert(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertAdmin,
		admin.Username,
		admin.PasswordHash,
		admin.Name,
		admin.Email,
		admin.Phone,
		admin.Country,
	)
	stored, err := scanAdmin(row)
	if infra.IsUniqueViolation(err) {
		// username conflicts are absorbed by the upsert; this is the email index
		return nil, domain.ErrConflict
	}
	return stored, err
}

func (r *AdminRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return scanAdmin(r.sql.QueryRow(ctx, sqlinline.QSelectAdminByUsername, username))
}

func (r *AdminRepositoryPG) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Admin, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateAdminProfile,
		username,
		update.Name,
		update.Phone,
		update.Country,
		update.BirthDate,
	)
	return scanAdmin(row)
}

func (r *AdminRepositoryPG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountAdmins).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// List returns one page of administrators, newest first.
func (r *AdminRepositoryPG) List(ctx context.Context, page domain.Page) ([]domain.Admin, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAdmins, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Admin, 0, page.Limit)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var a domain.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Name, &a.Email, &a.Phone, &a.BirthDate, &a.Country, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ domain.AdminRepository = (*AdminRepositoryPG)(nil)
