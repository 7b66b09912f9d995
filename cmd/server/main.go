package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/config"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/db"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/geocode"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/handler"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/ports"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/repository"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger = newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// sessions: Postgres when configured, otherwise in memory
	var (
		store       session.Store = session.NewMemoryStore()
		storeHealth ports.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect database", "err", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "err", err)
			os.Exit(1)
		}
		store = repository.SessionRepository{DB: pg}
		storeHealth = pg
	} else {
		logger.Warn("DATABASE_URL not set, sessions are kept in memory")
	}
	sessions := session.NewManager(store, cfg.SessionTTL)

	if !cfg.GasConfigured() {
		logger.Warn("GAS_WEB_APP_URL not set, remote API calls are disabled")
	}
	gas := gasapi.New(cfg.GasURL,
		gasapi.WithHTTPClient(&http.Client{Timeout: cfg.GasTimeout}),
		gasapi.WithLogger(logger),
		gasapi.WithMetrics(gasapi.NewMetrics(prometheus.DefaultRegisterer)),
	)
	geocoder := geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, nil)

	// services
	authSvc := service.AuthService{Config: cfg, Gas: gas, Sessions: sessions, Logger: logger}
	dashboardSvc := service.DashboardService{
		Gas:    gas,
		Retry:  service.DashboardRetryPolicy(cfg.DashboardRetryAttempts, cfg.DashboardRetryBackoff),
		Logger: logger,
	}
	bonusSvc := service.BonusService{Gas: gas}
	projectSvc := service.ProjectService{Gas: gas, Logger: logger}
	expenseSvc := service.ExpenseService{Gas: gas, Logger: logger}
	followupSvc := service.FollowupService{Gas: gas}
	employeeSvc := service.EmployeeService{Gas: gas}
	attendanceSvc := service.AttendanceService{Gas: gas}
	settingsSvc := service.SettingsService{Gas: gas}
	accountSvc := service.AccountService{Gas: gas, Sessions: sessions, Logger: logger}
	mapSvc := service.MapService{Gas: gas, Geocoder: geocoder, Logger: logger}
	campaignSvc := service.CampaignService{Gas: gas}

	// handlers
	healthHandler := handler.HealthHandler{Store: storeHealth, GasConfigured: cfg.GasConfigured()}
	authHandler := handler.AuthHandler{Service: &authSvc, SecureCookies: cfg.IsProduction()}
	dashboardHandler := handler.DashboardHandler{Service: &dashboardSvc}
	bonusHandler := handler.BonusHandler{Service: &bonusSvc}
	projectHandler := handler.ProjectHandler{Service: &projectSvc}
	expenseHandler := handler.ExpenseHandler{Service: &expenseSvc}
	followupHandler := handler.FollowupHandler{Service: &followupSvc}
	employeeHandler := handler.EmployeeHandler{Service: &employeeSvc}
	attendanceHandler := handler.AttendanceHandler{Service: &attendanceSvc}
	settingsHandler := handler.SettingsHandler{Service: &settingsSvc}
	accountHandler := handler.AccountHandler{Service: &accountSvc}
	noticeHandler := handler.NoticeHandler{Service: &settingsSvc}
	customerHandler := handler.CustomerHandler{Map: &mapSvc, Campaigns: &campaignSvc}
	docsHandler := handler.DocsHandler{}
	homeHandler := handler.HomeHandler{
		LiffID:        cfg.LiffID,
		LineLogin:     cfg.LineConfigured(),
		GasConfigured: cfg.GasConfigured(),
	}

	router := server.NewRouter(cfg,
		logger,
		authSvc,
		nil,
		healthHandler,
		authHandler,
		dashboardHandler,
		bonusHandler,
		projectHandler,
		expenseHandler,
		followupHandler,
		employeeHandler,
		attendanceHandler,
		settingsHandler,
		accountHandler,
		noticeHandler,
		customerHandler,
		docsHandler,
		homeHandler,
	)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
