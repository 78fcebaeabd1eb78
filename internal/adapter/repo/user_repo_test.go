package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusconnect/internal/domain"
	"campusconnect/internal/sqlinline"
)

var userColumns = []string{"id", "name", "age", "email", "phone", "gender", "password_hash", "birth_date", "country", "created_at", "updated_at"}

func userRow(rows *pgxmock.Rows, id, email string, created time.Time) *pgxmock.Rows {
	return rows.AddRow(id, "Ana", 20, email, "", "", "hash", (*time.Time)(nil), "CO", created, created)
}

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(sqlinline.QInsertUser).
		WithArgs("Ana", 20, "ana@uni.edu", "", "", "hash", "CO").
		WillReturnRows(userRow(pgxmock.NewRows(userColumns), "u-1", "ana@uni.edu", now))

	u, err := repo.Create(context.Background(), &domain.User{
		Name: "Ana", Age: 20, Email: "ana@uni.edu", PasswordHash: "hash", Country: "CO",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Nil(t, u.BirthDate)
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(sqlinline.QInsertUser).
		WithArgs("Ana", 20, "ana@uni.edu", "", "", "hash", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.User{Name: "Ana", Age: 20, Email: "ana@uni.edu", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(sqlinline.QSelectUserByEmail).
		WithArgs("nobody@uni.edu").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@uni.edu")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(sqlinline.QUpdateUserPassword).
		WithArgs("u-1", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(sqlinline.QUpdateUserPassword).
		WithArgs("u-2", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdatePassword(context.Background(), "u-1", "new-hash"))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "u-2", "new-hash"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	name := "Ana María"
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(sqlinline.QUpdateUserProfile).
		WithArgs("u-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("u-1", name, 20, "ana@uni.edu", "", "", "hash", (*time.Time)(nil), "CO", now, now))

	u, err := repo.UpdateProfile(context.Background(), "u-1", domain.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCountAndList(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(sqlinline.QCountUsers).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))
	rows := pgxmock.NewRows(userColumns)
	userRow(rows, "u-2", "b@uni.edu", now)
	userRow(rows, "u-1", "a@uni.edu", now.Add(-time.Hour))
	mock.ExpectQuery(sqlinline.QListUsers).
		WithArgs(10, 10).
		WillReturnRows(rows)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	list, err := repo.List(context.Background(), domain.Page{Number: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u-2", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
