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

	"github.com/skymanifest/passenger-admin/internal/api"
	"github.com/skymanifest/passenger-admin/internal/api/handler"
	"github.com/skymanifest/passenger-admin/internal/api/metrics"
	"github.com/skymanifest/passenger-admin/internal/api/middleware"
	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
	"github.com/skymanifest/passenger-admin/internal/core/service"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/config"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/db/memory"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/db/mongo"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/db/redis"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/queue"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/security"
	"github.com/skymanifest/passenger-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Passenger Manifest Admin API
// @version                     1.0
// @description                 Administration of passenger manifests with cookie-based sessions and role-based access.
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        token
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "passenger-admin",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores groups the repositories of the selected driver.
type stores struct {
	users      ports.UserRepository
	passengers ports.PassengerRepository
	audit      ports.AuditRepository
	checks     map[string]handler.HealthCheck
	close      func(context.Context)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	var limiter ports.LoginLimiter
	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		limiter = redis.NewLoginLimiter(redisClient, cfg.LoginMaxFailures, cfg.LoginFailureWindow)
		st.checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR empty: failed logins are not throttled")
	}

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, st.audit, logger.Component("audit"))
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens, err := security.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	guard := authz.NewGuard(authz.WithDenyHook(func(r domain.Resource, a domain.Action) {
		metrics.AuthzDenialsTotal.WithLabelValues(string(r), string(a)).Inc()
	}))

	authService := service.NewAuthService(st.users, hasher, tokens, limiter, logger.Component("auth"))
	userService := service.NewUserService(st.users, st.passengers, hasher, guard, dispatcher, logger.Component("users"))
	passengerService := service.NewPassengerService(st.passengers, st.users, guard, dispatcher, logger.Component("passengers"))
	dashboardService := service.NewDashboardService(st.passengers, st.users, guard)

	if cfg.Admin.Email != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
		}
	}

	e, err := api.NewRouter(api.Dependencies{
		Logger:       logger.Component("http"),
		Tokens:       tokens,
		Cookie:       middleware.TokenCookie{Secure: cfg.SecureCookies()},
		Guard:        guard,
		Auth:         authService,
		Users:        userService,
		Passengers:   passengerService,
		Dashboard:    dashboardService,
		HealthChecks: st.checks,
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store: data is lost on restart")
		return &stores{
			users:      memory.NewUserRepository(),
			passengers: memory.NewPassengerRepository(),
			audit:      memory.NewAuditRepository(),
			checks:     map[string]handler.HealthCheck{},
			close:      func(context.Context) {},
		}, nil
	}

	store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, fmt.Errorf("mongodb: %w", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	return &stores{
		users:      mongo.NewUserRepository(store.DB),
		passengers: mongo.NewPassengerRepository(store.DB),
		audit:      mongo.NewAuditRepository(store.DB),
		checks:     map[string]handler.HealthCheck{"mongodb": store.Ping},
		close: func(ctx context.Context) {
			if err := store.Close(ctx); err != nil {
				log.Error().Err(err).Msg("mongodb close")
			}
		},
	}, nil
}
