package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/audit"
	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/catalog"
	"github.com/mrlokans/readinglists/internal/config"
	"github.com/mrlokans/readinglists/internal/database"
	auditrepo "github.com/mrlokans/readinglists/internal/database/audit"
	"github.com/mrlokans/readinglists/internal/database/books"
	dbrl "github.com/mrlokans/readinglists/internal/database/readinglists"
	"github.com/mrlokans/readinglists/internal/database/users"
	http_controllers "github.com/mrlokans/readinglists/internal/http"
	"github.com/mrlokans/readinglists/internal/readinglists"
	"github.com/mrlokans/readinglists/internal/scheduler"
	"github.com/mrlokans/readinglists/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired application and the resources that need releasing.
type App struct {
	Router *gin.Engine

	db        *database.Database
	audit     *audit.Service
	limiter   *auth.LoginLimiter
	taskQueue *tasks.Client
	scheduler *scheduler.MaintenanceScheduler
	cancel    context.CancelFunc
	logger    *zap.Logger
}

// Build opens the database, wires services and controllers, and starts the
// background task queue and maintenance scheduler when enabled.
func Build(cfg *config.Config, version string, logger *zap.Logger) (*App, error) {
	if cfg.Auth.JWTSecret == "" {
		secret, err := auth.GenerateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		logger.Warn("generated a random JWT secret; set AUTH_JWT_SECRET to keep tokens valid across restarts")
	}

	if cfg.Maintenance.Enabled {
		if err := scheduler.ValidateSchedule(cfg.Maintenance.Schedule); err != nil {
			return nil, err
		}
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{db: db, logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), logger.Named("audit"))
	app.audit = auditService

	items := dbrl.NewItemManager(db.DB, cfg.ReadingLists.AutoOrder)
	bookRepo := books.NewRepository(db.DB)

	var purger catalog.MembershipPurger = catalog.ImmediatePurger{Items: items}
	var maintenance scheduler.MaintenanceRunner = tasks.InlineMaintenance{
		Orphans:       items,
		Audit:         auditService,
		Recorder:      auditService,
		RetentionDays: cfg.Audit.RetentionDays,
		Logger:        logger.Named("maintenance"),
	}

	if cfg.Tasks.Enabled {
		taskLogger := logger.Named("tasks")
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), taskLogger)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.taskQueue = taskClient

		taskClient.Register(
			tasks.NewPurgeBookMembershipsQueue(items, taskLogger),
			tasks.NewCleanupOrphanItemsQueue(items, auditService, taskLogger),
			tasks.NewCleanupAuditEventsQueue(auditService, auditService, taskLogger),
		)
		go taskClient.Start(ctx)

		purger = taskClient
		maintenance = tasks.QueuedMaintenance{Client: taskClient, RetentionDays: cfg.Audit.RetentionDays}
	} else {
		logger.Info("task queue disabled; book membership purges run inline")
	}

	if cfg.Maintenance.Enabled {
		app.scheduler = scheduler.NewMaintenanceScheduler(maintenance, cfg.Maintenance.Schedule, logger.Named("scheduler"))
		if err := app.scheduler.Start(ctx); err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	}

	bookCatalog := catalog.NewService(bookRepo, purger, logger.Named("catalog"))
	bookCatalog.SetEventRecorder(auditService)

	listService := readinglists.NewService(dbrl.NewListStore(db.DB), items, bookCatalog)
	listService.SetEventRecorder(auditService)

	userService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	app.limiter = auth.NewLoginLimiter(cfg.Auth)

	routerCfg := http_controllers.RouterConfig{
		Database:     db,
		ReadingLists: listService,
		Books:        bookCatalog,
		Users:        userService,
		Audit:        auditService,
		Tokens:       auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth),
		LoginLimiter: app.limiter,
		AuthEvents:   auditService,
		EnableHSTS:   cfg.HTTP.EnableHSTS,
		Logger:       logger.Named("http"),
		Version:      version,
	}
	if app.taskQueue != nil {
		routerCfg.Tasks = app.taskQueue
	}
	app.Router = http_controllers.NewRouter(routerCfg)

	return app, nil
}

// Close stops background work and releases the database. Pending audit
// writes are flushed before the database is closed.
func (a *App) Close(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.taskQueue != nil {
		a.taskQueue.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.taskQueue != nil {
		if err := a.taskQueue.Close(); err != nil {
			a.logger.Error("error closing task queue", zap.Error(err))
		}
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.audit != nil {
		a.audit.Wait()
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", zap.Error(err))
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var listenErr error
	select {
	case err, ok := <-serveErr:
		if ok {
			listenErr = fmt.Errorf("listen: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := srv.Shutdown(ctx)

	// Background work is stopped after in-flight requests have finished.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if listenErr != nil {
		return listenErr
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires the application and serves HTTP until interrupted.
func Run(cfg *config.Config, version string, logger *zap.Logger) error {
	logger.Info("starting readinglists", zap.String("version", version))

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := Build(cfg, version, logger)
	if err != nil {
		return err
	}

	return Serve(app.Router, cfg, logger, app.Close)
}
