package domain

import (
	"context"
	"time"
)

// VisitRepository owns the raw visit log and the daily buckets.
type VisitRepository interface {
	// RecordVisit appends the event and increments the bucket for day in a
	// single atomic operation, returning the bucket's new total.
	RecordVisit(ctx context.Context, event VisitEvent, day string) (int64, error)
	// DailyCounts returns the buckets between from and to inclusive (YYYY-MM-DD).
	DailyCounts(ctx context.Context, from, to string) ([]DailyVisitCount, error)
	// PurgeBefore deletes events visited before eventCutoff and buckets whose
	// day is before dayCutoff.
	PurgeBefore(ctx context.Context, eventCutoff time.Time, dayCutoff string) (PurgeResult, error)
}

// UserRepository defines access methods for student accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page Page) ([]User, error)
}

// AdminRepository defines access methods for administrator accounts.
type AdminRepository interface {
	Upsert(ctx context.Context, admin *Admin) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (*Admin, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page Page) ([]Admin, error)
}
