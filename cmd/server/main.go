package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/auth"
	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/config"
	"github.com/oggyb/sportly/internal/db"
	"github.com/oggyb/sportly/internal/logger"
	"github.com/oggyb/sportly/internal/provider"
	"github.com/oggyb/sportly/internal/quota"
	"github.com/oggyb/sportly/internal/server"
	"github.com/oggyb/sportly/internal/service/admin"
	"github.com/oggyb/sportly/internal/service/ai"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	tokens := auth.NewManager(cfg)
	if !tokens.Configured() {
		log.Error("JWT_SECRET is not set; refusing to start")
		os.Exit(1)
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// Inject logger into app context
	appCtx := app.New(cfg, database, redisCache, log)

	ledger, err := quota.New(appCtx)
	if err != nil {
		log.Error("failed to init quota ledger", "err", err)
		os.Exit(1)
	}

	gen := provider.NewOpenAI(cfg)
	if !gen.Configured() {
		log.Warn("OPENAI_API_KEY is not set; ai.Generate will fail with FailedPrecondition")
	}

	registrars := []server.Registrar{
		ai.NewRegistrar(appCtx, ledger, gen),
		admin.NewRegistrar(appCtx, ledger),
	}

	addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
	log.Info("starting gRPC server", "addr", addr, "env", cfg.App.ENV, "db_driver", cfg.DB.Driver)

	if err := server.StartGRPCServer(ctx, appCtx, tokens, registrars...); err != nil {
		log.Error("failed to start gRPC server", "err", err)
		os.Exit(1)
	}
}
