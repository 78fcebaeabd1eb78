package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
	got    string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	s.got = token
	return s.claims, s.err
}

func okHandler(t *testing.T, wantRole domain.AccountRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := ClaimsFromContext(r.Context())
		if c == nil || c.Role != wantRole {
			t.Fatalf("claims missing from context: %+v", c)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := TokenFromRequest(req, "cc_session"); got != "abc.def.ghi" {
		t.Fatalf("bearer token = %q", got)
	}
	req.AddCookie(&http.Cookie{Name: "cc_session", Value: "cookie-token"})
	if got := TokenFromRequest(req, "cc_session"); got != "cookie-token" {
		t.Fatalf("cookie should win, got %q", got)
	}
	if got := TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil), "cc_session"); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestRequireSession(t *testing.T) {
	student := &auth.Claims{Role: domain.RoleStudent}
	tests := []struct {
		name     string
		verifier *stubVerifier
		token    string
		want     int
		code     string
	}{
		{name: "missing token", verifier: &stubVerifier{}, want: http.StatusUnauthorized, code: "not_authorized"},
		{name: "invalid token", verifier: &stubVerifier{err: domain.ErrNotAuthorized}, token: "bad", want: http.StatusUnauthorized, code: "not_authorized"},
		{name: "store down", verifier: &stubVerifier{err: &domain.StorageError{Op: "session_revocation", Err: context.DeadlineExceeded}}, token: "t", want: http.StatusInternalServerError, code: "internal"},
		{name: "valid", verifier: &stubVerifier{claims: student}, token: "good", want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := RequireSession(tc.verifier, "cc_session")(okHandler(t, domain.RoleStudent))
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.code != "" {
				var body errorBody
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Success || body.Code != tc.code {
					t.Fatalf("unexpected body %+v", body)
				}
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &auth.Claims{Role: domain.RoleAdmin}
	student := &auth.Claims{Role: domain.RoleStudent}

	h := RequireAdmin(okHandler(t, domain.RoleAdmin))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats/visits", nil)
	h.ServeHTTP(rec, req.WithContext(ContextWithClaims(req.Context(), student)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student should get 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ContextWithClaims(req.Context(), admin)))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no claims should get 401, got %d", rec.Code)
	}
}

func TestSessionsIntegration(t *testing.T) {
	sessions := auth.NewSessions(auth.SessionConfig{Secret: "x", TTL: time.Minute}, nil)
	token, _, err := sessions.Issue("a-1", domain.RoleAdmin, "root")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	h := RequireSession(sessions, "cc_session")(RequireAdmin(okHandler(t, domain.RoleAdmin)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cc_session", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
