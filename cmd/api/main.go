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

	"github.com/rs/zerolog"

	_ "github.com/sirpyerre/appointment-scheduler/docs"
	"github.com/sirpyerre/appointment-scheduler/internal/api"
	"github.com/sirpyerre/appointment-scheduler/internal/api/handler"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
	"github.com/sirpyerre/appointment-scheduler/internal/core/service"
	"github.com/sirpyerre/appointment-scheduler/internal/infrastructure/config"
	mongostore "github.com/sirpyerre/appointment-scheduler/internal/infrastructure/db/mongo"
	redisstore "github.com/sirpyerre/appointment-scheduler/internal/infrastructure/db/redis"
	"github.com/sirpyerre/appointment-scheduler/internal/infrastructure/db/sqldb"
	"github.com/sirpyerre/appointment-scheduler/internal/infrastructure/queue"
	"github.com/sirpyerre/appointment-scheduler/pkg/logger"
)

// @title                       Appointment Scheduler API
// @version                     1.0
// @description                 Users, appointments and slot availability.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "appointment-scheduler",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("appointment scheduler stopped")
	}
}

// store bundles the repositories of the selected backend.
type store struct {
	users        ports.UserRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditRepository
	ping         handler.DependencyCheck
	close        func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.Database.Driver == "mongo" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:        mongostore.NewUserRepository(db),
			appointments: mongostore.NewAppointmentRepository(db),
			audit:        mongostore.NewAuditRepository(db),
			ping:         func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:        client.Disconnect,
		}, nil
	}

	db, err := sqldb.Connect(ctx, sqldb.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.URL,
		SQLitePath:         cfg.Database.SQLitePath,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := sqldb.Migrate(ctx, db, log); err != nil {
		_ = sqldb.Close(db)
		return nil, err
	}
	return &store{
		users:        sqldb.NewUserRepository(db),
		appointments: sqldb.NewAppointmentRepository(db),
		audit:        sqldb.NewAuditRepository(db),
		ping:         func(ctx context.Context) error { return sqldb.Ping(ctx, db) },
		close:        func(context.Context) error { return sqldb.Close(db) },
	}, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Database.Driver, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()
	log.Info().Str("driver", cfg.Database.Driver).Msg("store ready")

	checks := map[string]handler.DependencyCheck{"database": st.ping}

	// Without Redis the slot lock is process-local.
	var lock ports.SlotLock
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		lock = redisstore.NewSlotLock(rdb, cfg.Redis.LockTTL, logger.Component("slot_lock"))
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis slot lock")
	}

	auditService := service.NewAuditService(st.audit, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("audit_dispatcher"))

	userService := service.NewUserService(st.users, logger.Component("users")).
		WithAppointmentHistory(st.appointments, dispatcher)
	appointmentService := service.NewAppointmentService(st.appointments, st.users, lock, dispatcher, logger.Component("appointments"))
	authService := service.NewAuthService(st.users, cfg.JWTSecret, cfg.JWTTTL)

	if cfg.Bootstrap.AdminEmail != "" && cfg.Bootstrap.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return fmt.Errorf("bootstrapping admin: %w", err)
		}
	}

	dispatcher.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Appointments:   appointmentService,
		Audit:          auditService,
		Users:          userService,
		Auth:           authService,
		Checks:         checks,
		JWTSecret:      cfg.JWTSecret,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Log:            logger.Component("http"),
	})

	return serve(ctx, e, ":"+cfg.Port, dispatcher.Stop, cfg.ShutdownTimeout, log)
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is cancelled or srv stops on its own. Either way
// srv is shut down and drain is called before returning.
func serve(ctx context.Context, srv server, addr string, drain func(context.Context) error, timeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server starting")
		errCh <- srv.Start(addr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := drain(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit dispatcher did not drain")
	}
	log.Info().Msg("http server stopped")
	return serveErr
}
