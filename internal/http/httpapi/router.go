package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"campusconnect/internal/domain"
	"campusconnect/internal/http/handlers"
	"campusconnect/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires around handlers.
type Options struct {
	Logger          zerolog.Logger
	Sessions        middleware.SessionVerifier
	CookieName      string
	CORSOrigins     []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	HTTPObserver    middleware.HTTPObserver
	Metrics         http.Handler
	RateLimitPerMin int
	StaticDir       string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger, opts.HTTPObserver),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health
	r.Get("/v1/healthz", app.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	limited := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)
	session := middleware.RequireSession(opts.Sessions, opts.CookieName)

	r.Route("/api", func(r chi.Router) {
		r.With(limited).Post("/visits", app.RecordVisit)
		r.Get("/users/count", app.UserCounts)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limited)
			r.Post("/sign-up", app.SignUp)
			r.Post("/login", app.Login)
			r.Post("/admin-login", app.AdminLogin)
			r.With(session).Post("/logout", app.Logout)
		})

		r.Route("/password-reset", func(r chi.Router) {
			r.Use(limited)
			r.Post("/request", app.RequestPasswordReset)
			r.Post("/confirm", app.ConfirmPasswordReset)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(session, middleware.RequireRole(domain.RoleStudent))
			r.Get("/", app.Profile)
			r.Put("/", app.UpdateProfile)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(session, middleware.RequireAdmin)
			r.Get("/stats/visits", app.WeeklyVisits)
			r.Get("/profile", app.AdminProfile)
			r.Put("/profile", app.UpdateAdminProfile)
			r.Get("/users", app.ListUsers)
			r.Get("/users/stats", app.UserStats)
			r.Get("/admins", app.ListAdmins)
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", staticFiles(opts.StaticDir))
	}

	return r
}

// staticFiles serves the portal pages and falls back to index.html for
// paths that do not name a file.
func staticFiles(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err != nil || (info.IsDir() && !hasIndex(p)) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func hasIndex(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil
}
