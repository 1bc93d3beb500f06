// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/cryptown/internal/logging"
	"github.com/dmitrijs2005/cryptown/internal/server/auth"
	"github.com/dmitrijs2005/cryptown/internal/server/config"
	"github.com/dmitrijs2005/cryptown/internal/server/httpapi"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cryptown/internal/server/services"
	"github.com/dmitrijs2005/cryptown/internal/server/sessioncache"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	closers     []io.Closer
	userService *services.UserService
	postService *services.PostService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, db: db, closers: []io.Closer{db}}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var cache sessioncache.Cache = sessioncache.Nop{}
	if cfg.RedisAddr != "" {
		rdb, err := sessioncache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, rdb)
		cache = sessioncache.NewRedisCache(rdb)
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	app.userService = services.NewUserService(db, rm, cfg, hasher, cache, logger)
	app.postService = services.NewPostService(db, rm, logger)

	return app, nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i].Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if !strings.EqualFold(app.config.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(ctx, app.userService, app.postService, app.logger, httpapi.Options{
		CORSOrigins:   app.config.CORSOrigins,
		AuthRateLimit: app.config.AuthRateLimit,
	})

	srv := httpapi.NewServer(app.config.HTTPAddr, app.logger, router)
	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
