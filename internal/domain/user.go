package domain

import "time"

// AccountRole enumerates session roles.
type AccountRole string

const (
	RoleStudent AccountRole = "student"
	RoleAdmin   AccountRole = "admin"
)

// User represents a student or faculty account.
type User struct {
	ID           string
	Name         string
	Age          int
	Email        string
	Phone        string
	Gender       string
	PasswordHash string
	BirthDate    *time.Time
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Admin represents a portal administrator.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	Role         AccountRole
	Name         string
	Email        string
	Phone        string
	BirthDate    *time.Time
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileUpdate carries the optional profile fields a caller may change.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Country   *string
	BirthDate *time.Time
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Country == nil && p.BirthDate == nil
}

// Page describes an offset pagination window.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// TotalPages returns how many pages are needed to list total rows.
func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
