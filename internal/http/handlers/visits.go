package handlers

import (
	"net/http"
	"strings"

	"campusconnect/internal/middleware"
	"campusconnect/internal/visits"
)

type recordVisitRequest struct {
	Page string `json:"page" validate:"required,max=512"`
}

// RecordVisit handles POST /api/visits.
func (a *App) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req recordVisitRequest
	if err := a.decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	meta := visits.Meta{Country: middleware.CountryFromContext(r.Context())}
	if err := a.Visits.RecordVisit(r.Context(), req.Page, meta); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}

type weeklyVisitsData struct {
	VisitsPerDay []int64  `json:"visitsPerDay"`
	DayNames     []string `json:"dayNames"`
	Days         []string `json:"days"`
}

type weeklyVisitsResponse struct {
	Success  bool             `json:"success"`
	Data     weeklyVisitsData `json:"data"`
	Degraded bool             `json:"degraded,omitempty"`
}

// WeeklyVisits handles GET /api/admin/stats/visits. Storage failures degrade
// to an all-zero series instead of an error status.
func (a *App) WeeklyVisits(w http.ResponseWriter, r *http.Request) {
	ref := a.Visits.Today()
	if raw := strings.TrimSpace(r.URL.Query().Get("day")); raw != "" {
		day, err := a.Visits.Calendar().Parse(raw)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		ref = day
	}

	report, degraded := a.Visits.WeeklyReportOrZero(r.Context(), ref, middleware.LocaleFromContext(r.Context()))
	a.json(w, http.StatusOK, weeklyVisitsResponse{
		Success: true,
		Data: weeklyVisitsData{
			VisitsPerDay: report.VisitsPerDay(),
			DayNames:     report.DayNames(),
			Days:         report.Days(),
		},
		Degraded: degraded,
	})
}
