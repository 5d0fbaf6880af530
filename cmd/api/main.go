package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nyashahama/ai-readiness-assessments/internal/advisor"
	"github.com/nyashahama/ai-readiness-assessments/internal/api"
	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/auth"
	"github.com/nyashahama/ai-readiness-assessments/internal/cache"
	"github.com/nyashahama/ai-readiness-assessments/internal/config"
	"github.com/nyashahama/ai-readiness-assessments/internal/crm"
	"github.com/nyashahama/ai-readiness-assessments/internal/email"
	"github.com/nyashahama/ai-readiness-assessments/internal/report"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
	"github.com/nyashahama/ai-readiness-assessments/internal/store"
	"github.com/nyashahama/ai-readiness-assessments/internal/worker"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "db_driver", cfg.DBDriver)

	// Root context cancelled by OS signal. Worker, HTTP and gRPC all respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Scoring engines ───────────────────────────────────────────────────────
	// NewService validates every configuration table; a bad table stops startup.
	svc, err := assessment.NewService()
	if err != nil {
		return fmt.Errorf("assessments: %w", err)
	}
	validator, err := schema.NewValidator()
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	// ── Database ──────────────────────────────────────────────────────────────
	driver, err := store.ParseDriver(cfg.DBDriver)
	if err != nil {
		return err
	}
	openCtx, cancelOpen := context.WithTimeout(ctx, 10*time.Second)
	st, err := store.Open(openCtx, driver, cfg.DatabaseURL)
	cancelOpen()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer st.Close()
	logger.Info("database connected", "driver", driver)

	// ── Duplicate guard (Redis, optional) ─────────────────────────────────────
	guard, closeGuard, err := openGuard(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeGuard()

	// ── Report rendering ──────────────────────────────────────────────────────
	var reportOpts []report.Option
	if cfg.BookingURL != "" {
		reportOpts = append(reportOpts, report.WithBookingURL(cfg.BookingURL))
	}
	renderer, err := report.New(reportOpts...)
	if err != nil {
		return err
	}

	// ── Email (Resend) ────────────────────────────────────────────────────────
	var mailer email.Sender
	if cfg.ResendAPIKey != "" {
		var opts []email.Option
		if cfg.SalesBCCAddr != "" {
			opts = append(opts, email.WithBCC(cfg.SalesBCCAddr))
		}
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName, opts...)
	} else {
		mailer = email.LogSender{Logger: logger}
		logger.Warn("email: RESEND_API_KEY not set, reports will be logged instead of sent")
	}

	// ── CRM (HubSpot, optional) ───────────────────────────────────────────────
	var syncer crm.Syncer = crm.Nop{}
	if cfg.HubSpotToken != "" {
		syncer = crm.NewHubSpotClient(cfg.HubSpotToken)
	} else {
		logger.Info("crm: HUBSPOT_TOKEN not set, contact sync disabled")
	}

	// ── Advisor (optional cover note) ─────────────────────────────────────────
	writer := newAdvisor(cfg, logger)

	// ── Admin auth ────────────────────────────────────────────────────────────
	var issuer *auth.Issuer
	if cfg.AdminJWTSecret != "" {
		if issuer, err = auth.NewIssuer(cfg.AdminJWTSecret); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	} else {
		logger.Warn("auth: ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	job := worker.NewJob(st, writer, renderer, mailer, syncer, logger)
	runner := worker.NewRunner(job, st, worker.RunnerConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
	}, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		svc,
		validator,
		st,
		guard,
		runner, // *Runner satisfies worker.Enqueuer
		issuer,
		api.Config{
			CORSOrigins: cfg.CORSOrigins,
			DedupeTTL:   cfg.DedupeTTL,
		},
		logger,
	)

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── gRPC health ───────────────────────────────────────────────────────────
	// One service entry per assessment kind, plus "" for the process as a whole.
	healthSrv := health.NewServer()
	for _, kind := range assessment.Kinds() {
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if _, ok := svc.Engine(kind); ok {
			status = healthpb.HealthCheckResponse_SERVING
		}
		healthSrv.SetServingStatus(string(kind), status)
	}
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	// ── Listener (HTTP and gRPC share one port) ───────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	mux := cmux.New(lis)
	grpcL := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := mux.Match(cmux.Any())

	// Start the worker pool in a background goroutine. It blocks until ctx is done.
	workerDone := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(workerDone)
	}()

	serverErr := make(chan error, 3)
	go func() {
		if err := grpcSrv.Serve(grpcL); err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		if err := srv.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("server listening", "addr", lis.Addr().String())
		if err := mux.Serve(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, cmux.ErrServerClosed) {
			serverErr <- fmt.Errorf("cmux: %w", err)
		}
	}()

	// Block until either a signal arrives or a server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		stop()
		return fmt.Errorf("server error: %w", err)
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	grpcSrv.GracefulStop()
	mux.Close()

	// In-flight deliveries share ctx and are cancelled, not drained. Each one
	// still records its outcome; a row left in processing is reclaimed by the
	// next process's poller.
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("worker did not stop before the shutdown deadline")
	}

	logger.Info("shutdown complete")
	return nil
}

// openGuard connects to Redis when REDIS_URL is set. Without it duplicates are
// detected from the database alone.
func openGuard(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Guard, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("cache: REDIS_URL not set, duplicate guard uses the database only")
		return cache.Nop{}, func() {}, nil
	}
	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// The guard is an optimisation; a dead Redis must not stop intake.
		logger.Warn("cache: redis unreachable at startup", "error", err)
	}
	return cache.NewRedisGuard(client, cfg.DedupeTTL), func() { client.Close() }, nil
}

// newAdvisor picks the cover-note writer. Anthropic is primary when its key is
// set and DeepSeek is the fallback. With neither key, reports go out without
// a cover note.
func newAdvisor(cfg *config.Config, logger *slog.Logger) advisor.Writer {
	var primary, secondary advisor.Writer
	if cfg.AnthropicAPIKey != "" {
		primary = advisor.NewAnthropicWriter(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.DeepSeekAPIKey != "" {
		secondary = advisor.NewDeepSeekWriter(cfg.DeepSeekAPIKey, cfg.DeepSeekModel)
	}

	switch {
	case primary != nil && secondary != nil:
		logger.Info("advisor: using Anthropic with DeepSeek fallback")
	case primary != nil:
		logger.Info("advisor: using Anthropic only")
	case secondary != nil:
		logger.Info("advisor: using DeepSeek only")
	default:
		logger.Info("advisor: no AI keys set, reports are sent without a cover note")
		return nil
	}
	return advisor.NewFallbackWriter(primary, secondary, logger)
}
