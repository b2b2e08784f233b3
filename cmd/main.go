package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/okian/prochallenge/internal/adapters/http/api"
	"github.com/okian/prochallenge/internal/adapters/http/site"
	"github.com/okian/prochallenge/internal/adapters/http/swagger"
	"github.com/okian/prochallenge/internal/adapters/localstate"
	"github.com/okian/prochallenge/internal/adapters/remote"
	app "github.com/okian/prochallenge/internal/app"
	"github.com/okian/prochallenge/internal/config"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/leaderboard"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
	"github.com/rs/cors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 15 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "hub stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the hub until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("remote", cfg.RemoteURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService wires the remote client, local state and service from cfg.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	state, err := localstate.Open(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	client := remote.NewClient(cfg.RemoteURL,
		remote.WithTimeout(cfg.RemoteTimeout),
		remote.WithLogger(log.Named("remote")),
	)

	log.Debug(ctx, "service configured",
		logger.String("state", cfg.StatePath),
		logger.String("location", loc.String()),
		logger.Bool("enforceWeighInDay", cfg.EnforceWeighInDay),
	)
	return app.New(client, state,
		app.WithLogger(log.Named("service")),
		app.WithChallengeName(cfg.Challenge),
		app.WithSessionTTL(cfg.SessionTTL),
		app.WithQueueSize(cfg.QueueSize),
		app.WithRefreshInterval(cfg.RefreshInterval),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithDedupeTTL(cfg.DedupeTTL),
		app.WithTopLimit(cfg.TopLimit),
		app.WithCaseInsensitiveLookup(cfg.CaseInsensitiveLookup),
		app.WithCalendar(challenge.NewCalendar(
			challenge.WithLocation(loc),
			challenge.WithEnforcedWeighInDay(cfg.EnforceWeighInDay),
		)),
		app.WithClassifier(bmi.NewClassifier(bmi.WithMealPlans(cfg.MealPlans))),
		app.WithLeaderboardOptions(
			leaderboard.WithLocation(loc),
			leaderboard.WithYearQualifiedLabels(cfg.YearQualifiedLabels),
		),
	), nil
}

// newHandler registers docs, API and dashboard routes and wraps them in CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	r := mux.NewRouter()

	swagger.Register(ctx, r)

	apiServer := api.NewServer(svc,
		api.WithServerLogger(log.Named("api")),
		api.WithAllowedOrigins(cfg.CORSOrigins...),
	)
	apiServer.Register(ctx, r)

	// Catch-all; must stay last.
	site.Register(ctx, r)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", api.IdempotencyHeader, api.RequestIDHeader},
		ExposedHeaders:   []string{api.RequestIDHeader},
	})
	return c.Handler(r)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.SampleInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(metrics.SampleInterval() / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics copies the service gauges into the registry.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	metrics.UpdateQueueSize(stats.QueueSize)
	metrics.UpdateQueueCapacity(stats.QueueCapacity)
	metrics.UpdateLiveSubscribers(stats.LiveSubscribers)
}
