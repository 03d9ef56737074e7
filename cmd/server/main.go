// Command jinglebox-server starts the JingleBox HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jingleboxpro/jinglebox/internal/limiter"
	"github.com/jingleboxpro/jinglebox/internal/migrate"
	"github.com/jingleboxpro/jinglebox/internal/repository/postgres"
	"github.com/jingleboxpro/jinglebox/internal/server/httpapi"
	"github.com/jingleboxpro/jinglebox/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// envOr falls back to env when the flag keeps its default.
func envOr(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	_ = godotenv.Load()

	// Flags (env fallback: JB_ADDR, JB_DSN, JB_JWT_KEY)
	addr := flag.String("addr", "", "listen address (default :8080)")
	dsn := flag.String("dsn", "", "PostgreSQL DSN")
	jwtKey := flag.String("jwt-key", "", "HS256 signing key (required)")
	accessTTL := flag.Duration("access-ttl", 24*time.Hour, "access token TTL")
	revealDelay := flag.Duration("reveal-delay", 3*time.Second, "gift unwrap reveal delay")
	flag.Parse()

	listenAddr := envOr(*addr, "JB_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	dbDSN := envOr(*dsn, "JB_DSN")
	key := envOr(*jwtKey, "JB_JWT_KEY")

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", listenAddr),
	)

	if key == "" {
		logger.Fatal("missing jwt signing key (--jwt-key or JB_JWT_KEY)")
	}
	if dbDSN == "" {
		logger.Fatal("missing database DSN (--dsn or JB_DSN)")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, dbDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, dbDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	pageRepo := postgres.NewPageRepo(db)

	lim := limiter.NewPG(pool, 15*time.Minute, 5, 15*time.Minute)

	// Services
	pageSvc := service.NewPageService(pageRepo)
	authSvc := service.NewAuthService(userRepo, pageSvc, []byte(key), *accessTTL, lim)
	boards := service.NewBoards()
	gifts := service.NewExchange(*revealDelay)

	api := httpapi.New(authSvc, pageSvc, boards, gifts, []byte(key), logger)

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", listenAddr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("stopped")
}
