// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/rest"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

// seams for tests
var (
	openDB               = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }
	newRepositoryManager = func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() }
	newObjectStore       = func(ctx context.Context, c services.S3Config) (services.ObjectStore, error) {
		return services.NewS3ObjectStore(ctx, c)
	}
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *rest.Server
	grpcServer *gs.HealthServer
}

// NewApp opens the database, applies migrations and builds both servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := newRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// a typed nil would defeat the disabled check in ExportService
	var store services.ObjectStore
	if c.ExportEnabled {
		s3, err := newObjectStore(ctx, services.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
		store = s3
	}

	tokens := auth.NewJWTManager([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	users := services.NewUserService(db, m, auth.NewBcryptHasher(c.BcryptCost), tokens, logger)
	authn := auth.NewAuthenticator(tokens, users, logger)

	handlers := rest.NewHandlers(
		authn,
		users,
		services.NewNoteService(m.Notes(db), logger),
		services.NewPasswordService(m.Passwords(db), logger),
		services.NewExportService(db, m, store, c.ExportURLValidityDuration, logger),
		db,
		logger,
	)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: rest.NewServer(c.EndpointAddrHTTP, rest.NewRouter(handlers), c.ShutdownTimeout, logger),
		grpcServer: gs.NewHealthServer(c.EndpointAddrGRPC, db, c.HealthCheckInterval, logger),
	}, nil
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

type runner interface {
	Run(ctx context.Context) error
}

// start runs r; a failure of either server stops the whole app.
func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.httpServer)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.grpcServer)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
