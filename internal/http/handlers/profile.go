package handlers

import (
	"net/http"
	"time"

	"campusconnect/internal/domain"
	"campusconnect/internal/middleware"
)

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Country   string    `json:"country"`
	BirthDate *string   `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
}

type adminDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	BirthDate *string   `json:"birthDate"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Country:   u.Country,
		BirthDate: formatDate(u.BirthDate),
		CreatedAt: u.CreatedAt,
	}
}

func toAdminDTO(a *domain.Admin) adminDTO {
	return adminDTO{
		ID:        a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Country:   a.Country,
		BirthDate: formatDate(a.BirthDate),
		CreatedAt: a.CreatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

type profileUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Country   *string `json:"country" validate:"omitempty,max=56"`
	BirthDate *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
}

func (p profileUpdateRequest) toDomain() (domain.ProfileUpdate, error) {
	update := domain.ProfileUpdate{Name: p.Name, Phone: p.Phone, Country: p.Country}
	if p.BirthDate != nil {
		d, err := time.Parse(time.DateOnly, *p.BirthDate)
		if err != nil {
			return update, domain.InvalidInput("birthDate must be formatted as YYYY-MM-DD")
		}
		if d.After(time.Now()) {
			return update, domain.InvalidInput("birthDate cannot be in the future")
		}
		update.BirthDate = &d
	}
	return update, nil
}

type profileResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// Profile handles GET /api/profile.
func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	user, err := a.Accounts.Profile(r.Context(), claims.Subject)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse[userDTO]{Success: true, Data: toUserDTO(user)})
}

// UpdateProfile handles PUT /api/profile.
func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	update, ok := a.decodeProfileUpdate(w, r)
	if !ok {
		return
	}
	user, err := a.Accounts.UpdateProfile(r.Context(), claims.Subject, update)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse[userDTO]{Success: true, Data: toUserDTO(user)})
}

// AdminProfile handles GET /api/admin/profile.
func (a *App) AdminProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	admin, err := a.Accounts.AdminProfile(r.Context(), claims.Username)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse[adminDTO]{Success: true, Data: toAdminDTO(admin)})
}

// UpdateAdminProfile handles PUT /api/admin/profile.
func (a *App) UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	update, ok := a.decodeProfileUpdate(w, r)
	if !ok {
		return
	}
	admin, err := a.Accounts.UpdateAdminProfile(r.Context(), claims.Username, update)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse[adminDTO]{Success: true, Data: toAdminDTO(admin)})
}

func (a *App) decodeProfileUpdate(w http.ResponseWriter, r *http.Request) (domain.ProfileUpdate, bool) {
	var req profileUpdateRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return domain.ProfileUpdate{}, false
	}
	update, err := req.toDomain()
	if err != nil {
		a.fail(w, r, err)
		return domain.ProfileUpdate{}, false
	}
	return update, true
}
