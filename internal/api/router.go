package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nirmaan-ai/nirmaan/internal/api/handlers"
	mw "github.com/nirmaan-ai/nirmaan/internal/api/middleware"
	"github.com/nirmaan-ai/nirmaan/internal/buildconfig"
	"github.com/nirmaan-ai/nirmaan/internal/config"
	"github.com/nirmaan-ai/nirmaan/internal/domain"
	"github.com/nirmaan-ai/nirmaan/internal/geometry"
	"github.com/nirmaan-ai/nirmaan/internal/service"
	"github.com/nirmaan-ai/nirmaan/internal/store"
	"go.uber.org/zap"
)

// App holds the router and shared services for lifecycle management.
type App struct {
	Router *chi.Mux
	Policy *service.PolicyService

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	ruleStore := store.NewRuleStore(db)
	caseStore := store.NewCaseStore(db)
	feedbackStore := store.NewFeedbackStore(db)
	snapshotStore := store.NewPolicySnapshotStore(db)

	geoGen := geometry.NewFileGenerator(config.GeometryDir(), logger)

	// Services
	policySvc := service.NewPolicyService(service.DefaultAlpha, snapshotStore, logger)
	complianceSvc := service.NewComplianceService(ruleStore, caseStore, geoGen, config.DefaultCity(), logger)
	feedbackSvc := service.NewFeedbackService(feedbackStore, caseStore, policySvc, logger)

	// Handlers
	complianceHandler := handlers.NewComplianceHandler(complianceSvc)
	caseHandler := handlers.NewCaseHandler(caseStore)
	ruleHandler := handlers.NewRuleHandler(ruleStore)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackSvc)
	policyHandler := handlers.NewPolicyHandler(policySvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Policy:    policySvc,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compliance/check", complianceHandler.Check)

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", caseHandler.ListBySession)
			r.Get("/{caseID}", caseHandler.GetByCaseID)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Post("/", ruleHandler.Upsert)
			r.Get("/", ruleHandler.ListByCity)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", feedbackHandler.Submit)
			r.Get("/{caseID}", feedbackHandler.History)
		})

		r.Get("/suggestions", policyHandler.Suggest)
		r.Get("/policy/stats", policyHandler.Stats)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
			"commit":  buildconfig.Commit(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and the generator satisfy the domain interfaces at compile time.
var (
	_ domain.RuleStore           = (*store.RuleStore)(nil)
	_ domain.CaseStore           = (*store.CaseStore)(nil)
	_ domain.FeedbackStore       = (*store.FeedbackStore)(nil)
	_ domain.PolicySnapshotStore = (*store.PolicySnapshotStore)(nil)
	_ domain.GeometryGenerator   = (*geometry.FileGenerator)(nil)
)
