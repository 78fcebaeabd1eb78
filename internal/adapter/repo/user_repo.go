package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"campusconnect/internal/domain"
	"campusconnect/internal/infra"
	"campusconnect/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a student account. A duplicate email yields domain.ErrConflict.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		user.Name,
		user.Age,
		user.Email,
		user.Phone,
		user.Gender,
		user.PasswordHash,
		user.Country,
	)
	created, err := scanUser(row)
	if infra.IsUniqueViolation(err) {
		return nil, domain.ErrConflict
	}
	return created, err
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// UpdateProfile applies the non-nil fields of update and returns the stored row.
func (r *UserRepositoryPG) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateUserProfile,
		id,
		update.Name,
		update.Phone,
		update.Country,
		update.BirthDate,
	)
	return scanUser(row)
}

// UpdatePassword replaces the stored hash.
func (r *UserRepositoryPG) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPassword, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryPG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUsers).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// List returns one page of users, newest first.
func (r *UserRepositoryPG) List(ctx context.Context, page domain.Page) ([]domain.User, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsers, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Email, &u.Phone, &u.Gender, &u.PasswordHash, &u.BirthDate, &u.Country, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
