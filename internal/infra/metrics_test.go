package infra

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsHandlerExposesCounters(t *testing.T) {
	m := NewMetrics()
	m.VisitRecorded(nil)
	m.VisitRecorded(errors.New("boom"))
	m.ReportDegraded()
	m.SweepFinished(7, nil)
	m.SweepFinished(0, errors.New("db down"))
	m.HTTPRequest(http.MethodPost, http.StatusOK)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	text := string(body)

	for _, want := range []string{
		`campusconnect_visits_recorded_total{result="ok"} 1`,
		`campusconnect_visits_recorded_total{result="error"} 1`,
		`campusconnect_visit_report_degraded_total 1`,
		`campusconnect_visit_sweeps_total{result="error"} 1`,
		`campusconnect_visit_rows_purged_total 7`,
		`campusconnect_http_requests_total{method="POST",status="200"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
