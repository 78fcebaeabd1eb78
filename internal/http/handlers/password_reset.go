package handlers

import (
	"net/http"

	"campusconnect/internal/middleware"
)

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// RequestPasswordReset handles POST /api/password-reset/request. The answer
// is the same whether or not the email is registered.
func (a *App) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Resets.Request(r.Context(), req.Email, middleware.LocaleFromContext(r.Context())); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "if the address is registered a verification code was sent",
	})
}

// ConfirmPasswordReset handles POST /api/password-reset/confirm.
func (a *App) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Resets.Confirm(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
