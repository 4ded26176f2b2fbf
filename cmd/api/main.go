package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chart-eval/internal/api/http"
	"github.com/spec-kit/chart-eval/internal/api/http/handlers"
	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/config"
	"github.com/spec-kit/chart-eval/internal/events"
	"github.com/spec-kit/chart-eval/internal/observability"
	"github.com/spec-kit/chart-eval/internal/persistence"
	"github.com/spec-kit/chart-eval/internal/repository"
	"github.com/spec-kit/chart-eval/internal/repository/memory"
	"github.com/spec-kit/chart-eval/internal/revocation"
	"github.com/spec-kit/chart-eval/internal/service"
	"github.com/spec-kit/chart-eval/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		accountRepo repository.AccountRepository
		revokedRepo repository.RevokedTokenRepository
	)
	if pg.Enabled() {
		pool := pg.Pool()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		accountRepo = repository.NewAccountRepository(pool)
		revokedRepo = repository.NewRevokedTokenRepository(pool)
	} else {
		logger.Warn("using in-memory storage; data is lost on restart")
		accountRepo = memory.NewAccountRepository()
		revokedRepo = memory.NewRevokedTokenRepository()
	}

	var cache redis.Cmdable
	deps := map[string]handlers.Pinger{}
	if pg.Enabled() {
		deps["postgres"] = pg
	}
	if cfg.Revocation.CacheEnabled {
		rdb := persistence.NewRedis(cfg.Redis, logger)
		defer rdb.Close()
		if rdb.Available() {
			cache = rdb.Client
			deps["redis"] = rdb
		}
	}

	revocations := revocation.NewStore(revokedRepo, cache, logger.Named("revocation"))
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authenticator := auth.NewAuthenticator(tokens, accountRepo, revocations)

	policy, err := service.NewLoginPolicy(cfg.Auth.LoginPolicy, accountRepo)
	if err != nil {
		logger.Fatal("invalid login policy", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	sessions := service.NewSessionService(service.SessionDependencies{
		Tokens:      tokens,
		Policy:      policy,
		Accounts:    accountRepo,
		Revocations: revocations,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger.Named("session"),
	})
	accounts := service.NewAccountService(accountRepo)

	sweeper := worker.NewRevocationSweeper(revocations, cfg.Revocation.SweepInterval(), logger.Named("sweeper"), metrics)
	go sweeper.Run(ctx)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Users:          handlers.NewUsersHandler(sessions, accounts, authenticator, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authenticator, metrics),
	})

	logger.Info("starting http server",
		zap.String("addr", cfg.App.Addr()),
		zap.String("login_policy", policy.Name()),
		zap.Bool("revocation_cache", cache != nil),
	)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
