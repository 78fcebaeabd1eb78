// Package accounts manages student and administrator accounts.
package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// NormalizeEmail trims and case-folds an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// SignUp is the registration payload for a student account.
type SignUp struct {
	Name     string
	Age      int
	Email    string
	Phone    string
	Gender   string
	Password string
	Country  string
}

// Session is an issued token with the account it belongs to.
type Session struct {
	Token  string
	Claims *auth.Claims
}

// Counts summarises account totals.
type Counts struct {
	Users  int64
	Admins int64
}

func (c Counts) Total() int64 { return c.Users + c.Admins }

// Listing is one page of accounts.
type Listing[T any] struct {
	Items      []T
	Page       domain.Page
	Total      int64
	TotalPages int64
}

type Service struct {
	users    domain.UserRepository
	admins   domain.AdminRepository
	sessions *auth.Sessions
	logger   zerolog.Logger
}

func NewService(users domain.UserRepository, admins domain.AdminRepository, sessions *auth.Sessions, logger zerolog.Logger) *Service {
	return &Service{users: users, admins: admins, sessions: sessions, logger: logger}
}

// Register creates a student account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in SignUp) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}
	if in.Age <= 0 {
		return nil, domain.InvalidInput("age must be positive")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.InvalidInput("email is invalid")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Age:          in.Age,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Gender:       strings.TrimSpace(in.Gender),
		PasswordHash: hash,
		Country:      strings.ToUpper(strings.TrimSpace(in.Country)),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, &domain.StorageError{Op: "create_user", Err: err}
	}
	s.logger.Info().Str("user_id", user.ID).Msg("accounts: user registered")
	return user, nil
}

// Login authenticates a student by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, &domain.StorageError{Op: "get_user", Err: err}
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return s.issue(user.ID, domain.RoleStudent, user.Email)
}

// AdminLogin authenticates an administrator by username and password.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (*Session, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, &domain.StorageError{Op: "get_admin", Err: err}
	}
	if err := auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}
	return s.issue(admin.ID, domain.RoleAdmin, admin.Username)
}

// Logout revokes the session.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.sessions.Revoke(ctx, claims)
}

func (s *Service) issue(subject string, role domain.AccountRole, username string) (*Session, error) {
	token, claims, err := s.sessions.Issue(subject, role, username)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("sub", subject).Str("role", string(role)).Msg("accounts: session issued")
	return &Session{Token: token, Claims: claims}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageUnlessNotFound("get_user", err)
	}
	return user, nil
}

// UpdateProfile changes only the provided fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return s.Profile(ctx, userID)
	}
	update, err := cleanUpdate(update)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, storageUnlessNotFound("update_user", err)
	}
	return user, nil
}

func (s *Service) AdminProfile(ctx context.Context, username string) (*domain.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, storageUnlessNotFound("get_admin", err)
	}
	return admin, nil
}

func (s *Service) UpdateAdminProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Admin, error) {
	if update.Empty() {
		return s.AdminProfile(ctx, username)
	}
	update, err := cleanUpdate(update)
	if err != nil {
		return nil, err
	}
	admin, err := s.admins.UpdateProfile(ctx, username, update)
	if err != nil {
		return nil, storageUnlessNotFound("update_admin", err)
	}
	return admin, nil
}

// FindUserByEmail is used by the password reset flow.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, storageUnlessNotFound("get_user", err)
	}
	return user, nil
}

// SetPassword replaces a student's password.
func (s *Service) SetPassword(ctx context.Context, userID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return storageUnlessNotFound("update_password", err)
	}
	return nil
}

// EnsureAdmin creates the administrator or resets its password.
func (s *Service) EnsureAdmin(ctx context.Context, admin domain.Admin, password string) (*domain.Admin, error) {
	admin.Username = strings.TrimSpace(admin.Username)
	if admin.Username == "" {
		return nil, domain.InvalidInput("username is required")
	}
	if strings.TrimSpace(admin.Name) == "" {
		admin.Name = admin.Username
	}
	admin.Email = NormalizeEmail(admin.Email)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin.PasswordHash = hash
	stored, err := s.admins.Upsert(ctx, &admin)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, &domain.StorageError{Op: "upsert_admin", Err: err}
	}
	return stored, nil
}

// Counts returns how many students and administrators exist.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return Counts{}, &domain.StorageError{Op: "count_users", Err: err}
	}
	admins, err := s.admins.Count(ctx)
	if err != nil {
		return Counts{}, &domain.StorageError{Op: "count_admins", Err: err}
	}
	return Counts{Users: users, Admins: admins}, nil
}

func (s *Service) ListUsers(ctx context.Context, page domain.Page) (Listing[domain.User], error) {
	page = ClampPage(page)
	total, err := s.users.Count(ctx)
	if err != nil {
		return Listing[domain.User]{}, &domain.StorageError{Op: "count_users", Err: err}
	}
	items, err := s.users.List(ctx, page)
	if err != nil {
		return Listing[domain.User]{}, &domain.StorageError{Op: "list_users", Err: err}
	}
	return Listing[domain.User]{Items: items, Page: page, Total: total, TotalPages: page.TotalPages(total)}, nil
}

func (s *Service) ListAdmins(ctx context.Context, page domain.Page) (Listing[domain.Admin], error) {
	page = ClampPage(page)
	total, err := s.admins.Count(ctx)
	if err != nil {
		return Listing[domain.Admin]{}, &domain.StorageError{Op: "count_admins", Err: err}
	}
	items, err := s.admins.List(ctx, page)
	if err != nil {
		return Listing[domain.Admin]{}, &domain.StorageError{Op: "list_admins", Err: err}
	}
	return Listing[domain.Admin]{Items: items, Page: page, Total: total, TotalPages: page.TotalPages(total)}, nil
}

// ClampPage applies the default limit and bounds.
func ClampPage(p domain.Page) domain.Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return p
}

func cleanUpdate(u domain.ProfileUpdate) (domain.ProfileUpdate, error) {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	u.Name = trim(u.Name)
	u.Phone = trim(u.Phone)
	u.Country = trim(u.Country)
	if u.Country != nil {
		upper := strings.ToUpper(*u.Country)
		u.Country = &upper
	}
	if u.Name != nil && *u.Name == "" {
		return u, domain.InvalidInput("name cannot be blank")
	}
	return u, nil
}

func storageUnlessNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err}
}
