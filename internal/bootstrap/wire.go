package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/config"
	"github.com/streamhive/account-service/internal/infrastructure/db/postgres"
	"github.com/streamhive/account-service/internal/infrastructure/memory"
	"github.com/streamhive/account-service/internal/infrastructure/security"
	"github.com/streamhive/account-service/internal/infrastructure/storage"
	"github.com/streamhive/account-service/internal/logger"
	http_handlers "github.com/streamhive/account-service/internal/transport/http/handlers"
	"github.com/streamhive/account-service/internal/transport/http/middleware"
	"github.com/streamhive/account-service/internal/transport/http/response"
	"github.com/streamhive/account-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (*sql.DB, error)

	NewObjectStore func(cfg *config.Config) (account.ObjectStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) user repo: postgres, or the in-process store for local runs
	var users account.UserRepo
	var sqlDB *sql.DB

	if cfg.DBAddr == "memory" {
		logger.Logger.Warn().Msg("running on the in-memory user store; data is not persisted")
		users = memory.NewUserRepo()
	} else {
		db, err := deps.NewDB(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.RunMigrations(ctx, db); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}

		sqlDB = db
		users = postgres.NewUserRepo(db)
	}

	// 2) object store
	store, err := deps.NewObjectStore(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 3) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	issuer := security.NewJWTIssuer(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		"account-service",
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	// 4) service
	svc := account.NewService(users, hasher, issuer, store, logger.Logger)

	// 5) handlers + middleware
	accountH := http_handlers.NewAccountHandler(
		svc,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		cfg.MaxUploadSize,
		cfg.SecureCookies(),
	)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(issuer, users, response.WriteError)

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Account: accountH,
		AuthMW:  authMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewObjectStore: func(cfg *config.Config) (account.ObjectStore, error) {
			st, err := storage.NewS3Store(cfg, logger.Logger)
			if err != nil {
				return nil, err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := st.EnsureBucket(ctx); err != nil {
				// The bucket may be provisioned out of band; uploads will
				// surface the real error if it truly is missing.
				logger.Logger.Warn().Err(err).Msg("could not ensure bucket")
			}
			return st, nil
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
