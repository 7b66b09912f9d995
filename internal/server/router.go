package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/config"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/handler"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	authenticator Authenticator,
	metrics http.Handler,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	dashboard handler.DashboardHandler,
	bonus handler.BonusHandler,
	projects handler.ProjectHandler,
	expenses handler.ExpenseHandler,
	followups handler.FollowupHandler,
	employees handler.EmployeeHandler,
	attendance handler.AttendanceHandler,
	settings handler.SettingsHandler,
	account handler.AccountHandler,
	notices handler.NoticeHandler,
	customers handler.CustomerHandler,
	docs handler.DocsHandler,
	home handler.HomeHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	if metrics == nil {
		metrics = promhttp.Handler()
	}

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", metrics)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(authenticator))
		auth.RegisterProtectedRoutes(pr)
		// every signed-in role
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleSales, domain.RoleStaff, domain.RoleOffice))
			dashboard.RegisterRoutes(sr)
			projects.RegisterRoutes(sr)
			expenses.RegisterRoutes(sr)
			followups.RegisterRoutes(sr)
			employees.RegisterRoutes(sr)
			attendance.RegisterRoutes(sr)
			settings.RegisterRoutes(sr)
			account.RegisterRoutes(sr)
			notices.RegisterRoutes(sr)
			customers.RegisterRoutes(sr)
		})
		// admin only
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			bonus.RegisterRoutes(ar)
			employees.RegisterAdminRoutes(ar)
			settings.RegisterAdminRoutes(ar)
		})
	})

	return r
}
