package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"campusconnect/internal/domain"
)

// UserCounts handles the public GET /api/users/count.
func (a *App) UserCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := a.Accounts.Counts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"students": counts.Users, "staff": counts.Admins})
}

// UserStats handles GET /api/admin/users/stats.
func (a *App) UserStats(w http.ResponseWriter, r *http.Request) {
	counts, err := a.Accounts.Counts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]int64{
			"users":  counts.Users,
			"admins": counts.Admins,
			"total":  counts.Total(),
		},
	})
}

type listResponse[T any] struct {
	Success     bool  `json:"success"`
	Data        []T   `json:"data"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Total       int64 `json:"total"`
}

// ListUsers handles GET /api/admin/users.
func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	listing, err := a.Accounts.ListUsers(r.Context(), page)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]userDTO, 0, len(listing.Items))
	for i := range listing.Items {
		items = append(items, toUserDTO(&listing.Items[i]))
	}
	a.json(w, http.StatusOK, listResponse[userDTO]{
		Success:     true,
		Data:        items,
		TotalPages:  listing.TotalPages,
		CurrentPage: listing.Page.Number,
		Total:       listing.Total,
	})
}

// ListAdmins handles GET /api/admin/admins.
func (a *App) ListAdmins(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	listing, err := a.Accounts.ListAdmins(r.Context(), page)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]adminDTO, 0, len(listing.Items))
	for i := range listing.Items {
		items = append(items, toAdminDTO(&listing.Items[i]))
	}
	a.json(w, http.StatusOK, listResponse[adminDTO]{
		Success:     true,
		Data:        items,
		TotalPages:  listing.TotalPages,
		CurrentPage: listing.Page.Number,
		Total:       listing.Total,
	})
}

func pageFromQuery(r *http.Request) (domain.Page, error) {
	q := r.URL.Query()
	var page domain.Page
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &page.Number}, {"limit", &page.Limit}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, domain.InvalidInput("%s must be an integer", p.name)
		}
		*p.dst = n
	}
	return page, nil
}
