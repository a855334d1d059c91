package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	sfhttp "github.com/Strob0t/SiteForge/internal/adapter/http"
	sfnats "github.com/Strob0t/SiteForge/internal/adapter/nats"
	"github.com/Strob0t/SiteForge/internal/adapter/natskv"
	"github.com/Strob0t/SiteForge/internal/adapter/otel"
	"github.com/Strob0t/SiteForge/internal/adapter/postgres"
	"github.com/Strob0t/SiteForge/internal/adapter/ristretto"
	"github.com/Strob0t/SiteForge/internal/adapter/tiered"
	"github.com/Strob0t/SiteForge/internal/config"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/logger"
	"github.com/Strob0t/SiteForge/internal/middleware"
	"github.com/Strob0t/SiteForge/internal/port/messagequeue"
	"github.com/Strob0t/SiteForge/internal/resilience"
	"github.com/Strob0t/SiteForge/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"migrate_batch_size", cfg.Migrate.BatchSize,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	// Master PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMasterMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("master migrations: %w", err)
	}
	slog.Info("master migrations applied")

	// NATS
	queue, err := sfnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	kv, err := queue.EnsureKVBucket(ctx, cfg.Cache.L2Bucket, cfg.Cache.L2TTL)
	if err != nil {
		return fmt.Errorf("nats kv bucket: %w", err)
	}

	// Caches: in-process L1, NATS KV L2 behind a circuit breaker. An open
	// breaker degrades lookups to L1 plus the registry.
	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("l1 cache: %w", err)
	}
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	l2 := resilience.Guard(natskv.New(kv), breaker)
	cacheTiers := tiered.New(l1, l2, cfg.Cache.L1TTL)

	// Observability
	telemetryShutdown, err := otel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Stores and services ---

	connStr, err := tenant.NewConnStringBuilder(cfg.Postgres.TenantDSNTemplate)
	if err != nil {
		return fmt.Errorf("tenant dsn template: %w", err)
	}

	pools := postgres.NewPools(cfg.Postgres)
	defer pools.CloseAll()

	store := postgres.NewStore(pool)
	tenantStore := postgres.NewTenantStore(pools)
	provisioner := postgres.NewProvisioner(cfg.Postgres.DSN)
	migrator := postgres.NewMigrator(cfg.Postgres.DSN)

	tenantCache := service.NewTenantCache(cacheTiers, cfg.Cache.L2TTL)
	featureCache := service.NewFeatureCache(cacheTiers, cfg.Cache.L2TTL)

	resolver := service.NewResolver(store, tenantCache, metrics, log)
	onboarding := service.NewOnboarding(store, provisioner, connStr, tenantCache, queue, metrics, log)
	migration := service.NewMigration(store, migrator, cfg.Migrate.BatchSize, cfg.Migrate.MaxParallelTenants, metrics, log)
	tenants := service.NewTenants(store, connStr, tenantCache, featureCache, pools, queue, log)
	features := service.NewFeatures(store, featureCache, log)
	auth := service.NewAuth(store, cfg.Auth.BcryptCost, log)
	content := service.NewContent(tenantStore)

	// Cross-instance cache coherence: drop local snapshots when another
	// instance invalidates a tenant.
	unsubscribe, err := queue.Subscribe(ctx, messagequeue.SubjectTenantInvalidated, func(_ string, data []byte) error {
		var ev messagequeue.TenantEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		if err := tenantCache.Invalidate(ctx, ev.Identifier); err != nil {
			return err
		}
		return featureCache.InvalidateTenant(ctx, ev.TenantID)
	})
	if err != nil {
		return fmt.Errorf("invalidation subscriber: %w", err)
	}
	defer unsubscribe()

	// --- HTTP ---

	handlers := &sfhttp.Handlers{
		Content:    content,
		Features:   features,
		Tenants:    tenants,
		Onboarding: onboarding,
		Migration:  migration,
		Auth:       auth,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()

	r.Use(sfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(sfhttp.Logger)
	r.Use(sfhttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(limiter.Handler)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/health", healthHandler(pool))

	sfhttp.MountRoutes(r, handlers, resolver, auth, cfg.Server.TenantHeader)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler reports liveness plus master database reachability.
func healthHandler(pool interface {
	Ping(ctx context.Context) error
}) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Postgres: "ok"}
		code := http.StatusOK
		if err := pool.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Postgres = err.Error()
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
