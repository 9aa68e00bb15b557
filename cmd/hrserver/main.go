package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/staffdesk/hr-identity/internal/api"
	"github.com/staffdesk/hr-identity/internal/core/ports"
	"github.com/staffdesk/hr-identity/internal/core/service"
	"github.com/staffdesk/hr-identity/internal/infrastructure/config"
	"github.com/staffdesk/hr-identity/internal/infrastructure/db/memory"
	mongostore "github.com/staffdesk/hr-identity/internal/infrastructure/db/mongo"
	redisstore "github.com/staffdesk/hr-identity/internal/infrastructure/db/redis"
	"github.com/staffdesk/hr-identity/internal/infrastructure/queue"
	"github.com/staffdesk/hr-identity/internal/infrastructure/security"
	"github.com/staffdesk/hr-identity/internal/infrastructure/seed"
	"github.com/staffdesk/hr-identity/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hrserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "hr-identity",
	})

	// --- Stores ---
	var (
		users    ports.UserRepository
		activity ports.ActivityRecorder
		db       *mongo.Database
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		users = memory.NewUserRepository()
		activity = memory.NewActivityRepository(0)
		log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "hr-identity",
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			return err
		}
		db = database
		users = mongostore.NewUserRepository(database)
		activity = mongostore.NewActivityRepository(database)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	// --- Security ---
	secCfg := cfg.Security()
	hasher := security.NewBcryptHasher(secCfg)
	tokens := security.NewJWTService(secCfg)

	authOpts := []service.AuthOption{}
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		authOpts = append(authOpts, service.WithLoginThrottle(
			redisstore.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Lockout),
		))
		log.Info().Int("max_attempts", cfg.Login.MaxAttempts).Dur("lockout", cfg.Login.Lockout).Msg("login throttling enabled")
	}

	authSvc := service.NewAuthService(users, hasher, tokens, log, authOpts...)

	if err := bootstrap(ctx, cfg, authSvc, users, log); err != nil {
		return err
	}

	// --- Activity dispatcher ---
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activity, log)
	// Workers outlive the signal so Close can drain what the last requests queued.
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	e := api.NewRouter(api.Deps{
		AuthService:   authSvc,
		Authenticator: service.NewAuthenticator(users, tokens, log),
		Authorizer:    service.NewAuthorizer(),
		Activity:      dispatcher,
		Mongo:         db,
		Redis:         rdb,
		Log:           log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	return nil
}

// bootstrap creates the configured admin account and applies the seed file.
func bootstrap(ctx context.Context, cfg *config.Config, authSvc *service.AuthService, users ports.UserRepository, log zerolog.Logger) error {
	if cfg.Admin.Email != "" {
		admin, created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			log.Info().Str("user_id", admin.ID).Msg("bootstrap admin created")
		}
	}

	if cfg.SeedFile != "" {
		n, err := seed.LoadFile(ctx, cfg.SeedFile, authSvc, users, log)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Int("created", n).Str("path", cfg.SeedFile).Msg("seed file applied")
	}
	return nil
}
