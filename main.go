package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"smartcopro-dashboard/internal/audit"
	"smartcopro-dashboard/internal/config"
	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/logging"
	"smartcopro-dashboard/internal/observability/metrics"
	"smartcopro-dashboard/internal/session"
	memorystore "smartcopro-dashboard/internal/session/infrastructure/memory"
	postgresstore "smartcopro-dashboard/internal/session/infrastructure/postgres"
	"smartcopro-dashboard/internal/upstream"
	"smartcopro-dashboard/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	logger, err := logging.NewLogger("copro-gateway")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, auditLog, closeDB := buildStorage(ctx, cfg, logger)
	defer closeDB()

	client, err := upstream.NewClient(cfg.UpstreamBaseURL, upstream.TokenFunc(gate.TokenFrom),
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithHTTPClient(&http.Client{
			Timeout:   cfg.UpstreamTimeout,
			Transport: &metrics.UpstreamTransport{},
		}),
	)
	if err != nil {
		logger.Fatal("upstream client", zap.Error(err))
	}

	sessions, err := session.NewManager(client, store, cfg.SessionTTL, logger)
	if err != nil {
		logger.Fatal("session manager", zap.Error(err))
	}

	cookies, err := gate.NewCookieCodec(cfg.CookieName, []byte(cfg.CookieSecret))
	if err != nil {
		logger.Fatal("cookie codec", zap.Error(err))
	}

	policy := gate.NewDefaultPolicy([]string{"/login", "/healthz", "/metrics"}, nil)
	middleware, err := gate.NewMiddleware(cookies, sessions, policy, logger)
	if err != nil {
		logger.Fatal("gate middleware", zap.Error(err))
	}

	server, err := web.NewServer(client, sessions, cookies, auditLog, logger)
	if err != nil {
		logger.Fatal("server", zap.Error(err))
	}

	metrics.Init(func() float64 {
		count, err := sessions.ActiveCount(context.Background())
		if err != nil {
			return 0
		}
		return float64(count)
	})

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sessions.SweepExpired(sweepCtx)
	}); err != nil {
		logger.Fatal("sweep schedule", zap.String("schedule", cfg.SweepSchedule), zap.Error(err))
	}
	sweeper.Start()
	defer sweeper.Stop()

	mux := http.NewServeMux()
	server.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           web.LoggingMiddleware(logger, middleware.Wrap(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// buildStorage opens Postgres when DATABASE_URL is set; otherwise sessions
// live in memory and audit entries are discarded.
func buildStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Store, audit.Logger, func()) {
	if cfg.DatabaseURL == "" {
		logger.Warn("no DATABASE_URL, using in-memory sessions")
		return memorystore.NewStore(), audit.Nop{}, func() {}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}

	store, err := postgresstore.NewStore(db)
	if err != nil {
		logger.Fatal("session store", zap.Error(err))
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("session schema", zap.Error(err))
	}

	repo := audit.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("audit schema", zap.Error(err))
	}

	return store, repo, func() { _ = db.Close() }
}
