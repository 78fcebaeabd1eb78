package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"campusconnect/internal/accounts"
	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
	"campusconnect/internal/visits"
)

const maxBodyBytes = 1 << 20

// VisitService is the visit recorder and reporter.
type VisitService interface {
	RecordVisit(ctx context.Context, page string, meta visits.Meta) error
	WeeklyReportOrZero(ctx context.Context, referenceDay time.Time, locale string) (domain.WeeklyReport, bool)
	Today() time.Time
	Calendar() visits.Calendar
}

// AccountService covers registration, login and profile management.
type AccountService interface {
	Register(ctx context.Context, in accounts.SignUp) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*accounts.Session, error)
	AdminLogin(ctx context.Context, username, password string) (*accounts.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	AdminProfile(ctx context.Context, username string) (*domain.Admin, error)
	UpdateAdminProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Admin, error)
	Counts(ctx context.Context) (accounts.Counts, error)
	ListUsers(ctx context.Context, page domain.Page) (accounts.Listing[domain.User], error)
	ListAdmins(ctx context.Context, page domain.Page) (accounts.Listing[domain.Admin], error)
}

// ResetService runs the email verification-code flow.
type ResetService interface {
	Request(ctx context.Context, email, locale string) error
	Confirm(ctx context.Context, email, code, newPassword string) error
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type App struct {
	Visits   VisitService
	Accounts AccountService
	Resets   ResetService
	Cookie   CookieConfig
	Logger   zerolog.Logger

	validate *validator.Validate
}

func NewApp(v VisitService, a AccountService, r ResetService, cookie CookieConfig, logger zerolog.Logger) *App {
	if cookie.Name == "" {
		cookie.Name = "cc_session"
	}
	return &App{
		Visits:   v,
		Accounts: a,
		Resets:   r,
		Cookie:   cookie,
		Logger:   logger,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Success: false, Code: code, Message: message})
}

// fail maps a service error onto the HTTP error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, domain.ErrNotAuthorized):
		a.error(w, http.StatusUnauthorized, "not_authorized", "not authorized")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", "already exists")
	case errors.Is(err, domain.ErrInvalidCode):
		a.error(w, http.StatusBadRequest, "invalid_code", "verification code is incorrect")
	case errors.Is(err, domain.ErrCodeExpired):
		a.error(w, http.StatusBadRequest, "code_expired", "verification code expired or was never requested")
	default:
		ev := a.log(r).Error().Err(err)
		var serr *domain.StorageError
		if errors.As(err, &serr) {
			ev = ev.Str("op", serr.Op).Str("day", serr.Day)
		}
		ev.Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// log prefers the request-scoped logger installed by middleware.Logger.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

// decode reads one JSON object into dst, rejecting unknown fields, and
// validates it.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.InvalidInput("malformed request body: %v", err)
	}
	if dec.More() {
		return domain.InvalidInput("request body must contain a single object")
	}
	if err := a.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min", "max", "len":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be formatted as YYYY-MM-DD", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return domain.InvalidInput("%s", strings.Join(msgs, "; "))
}
