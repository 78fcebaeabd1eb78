package handlers

import (
	"net/http"
	"time"

	"campusconnect/internal/accounts"
	"campusconnect/internal/middleware"
)

type signUpRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Age      int    `json:"age" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
	Gender   string `json:"gender" validate:"omitempty,max=40"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

// SignUp handles POST /api/auth/sign-up.
func (a *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.Accounts.Register(r.Context(), accounts.SignUp{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Password: req.Password,
		Country:  middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"success": true, "id": user.ID})
}

// Login handles POST /api/auth/login for students.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	sess, err := a.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.startSession(w, sess)
}

// AdminLogin handles POST /api/auth/admin-login.
func (a *App) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	sess, err := a.Accounts.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.startSession(w, sess)
}

// Logout revokes the current session and clears the cookie.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		a.error(w, http.StatusUnauthorized, "not_authorized", "session required")
		return
	}
	if err := a.Accounts.Logout(r.Context(), claims); err != nil {
		a.fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *App) startSession(w http.ResponseWriter, sess *accounts.Session) {
	maxAge := int(a.Cookie.TTL.Seconds())
	if sess.Claims != nil && sess.Claims.ExpiresAt != nil {
		maxAge = int(time.Until(sess.Claims.ExpiresAt.Time).Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.Cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	role := ""
	if sess.Claims != nil {
		role = string(sess.Claims.Role)
	}
	a.json(w, http.StatusOK, sessionResponse{Success: true, Token: sess.Token, Role: role})
}
