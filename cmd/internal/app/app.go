// Package app wires the taskdeck server runtime: config, logging, database,
// HTTP routes and metrics.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskdeck/cmd/identity"
	authapi "taskdeck/cmd/internal/auth/api"
	"taskdeck/cmd/internal/auth/cookie"
	"taskdeck/cmd/internal/auth/session"
	"taskdeck/cmd/internal/auth/token"
	"taskdeck/cmd/internal/task"
	"taskdeck/cmd/security/password"
)

// App is the taskdeck server runtime.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	metrics *Metrics
	auth    *authapi.Handler
	tasks   *task.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(); err != nil {
		return nil, err
	}

	tokenCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	issuer, err := token.NewIssuer(tokenCfg)
	if err != nil {
		return nil, err
	}

	codec, err := cookie.NewCodecFromEnv()
	if err != nil {
		return nil, err
	}

	pw, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	users, sessions, tasks, dbPool, dbEnabled, err := newStores(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	sessionSvc, err := session.NewService(sessions, pw, issuer.Duration(token.ClassRefresh))
	if err != nil {
		return nil, err
	}

	authHandler, err := authapi.NewHandler(
		authapi.LoadConfigFromEnv(), log, users, pw, issuer, codec, sessionSvc, tasks)
	if err != nil {
		return nil, err
	}

	taskHandler, err := task.NewHandler(tasks, authHandler.AccessPrincipal, task.DefaultHandlerConfig(), log)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		metrics:   NewMetrics(),
		auth:      authHandler,
		tasks:     taskHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.metrics, a.auth, a.tasks)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log, a.metrics),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStores decides between Postgres-backed persistence and the in-memory
// development stores. With Postgres, embedded migrations run first unless
// disabled.
func newStores(ctx context.Context, cfg Config, log Logger) (identity.Store, session.Store, task.Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return identity.NewInMemoryStore(), session.NewInMemoryStore(), task.NewInMemoryStore(), nil, false, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, false, err
	}

	if cfg.DBMigrate {
		if err := RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, false, err
		}
		log.Info("db.migrations.applied")
	}

	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, false, err
	}
	sessions, err := session.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, false, err
	}
	tasks, err := task.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, false, err
	}

	log.Info("db.enabled.postgres_store")
	return users, sessions, tasks, pool, true, nil
}
