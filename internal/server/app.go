// Package server initializes and runs the application: it connects storage
// backends, applies migrations, wires the services, and serves the REST API
// with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/logging"
	"github.com/dmitrijs2005/contacthub/internal/server/avatars"
	"github.com/dmitrijs2005/contacthub/internal/server/cache"
	"github.com/dmitrijs2005/contacthub/internal/server/config"
	"github.com/dmitrijs2005/contacthub/internal/server/email"
	"github.com/dmitrijs2005/contacthub/internal/server/httpapi"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contacthub/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	userService    *services.UserService
	contactService *services.ContactService
	cache          cache.Cache
	closers        []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: cfg, logger: logger}
	app.closers = append(app.closers, db.Close)

	var c cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr)
		app.closers = append(app.closers, rc.Close)
		c = rc
	} else {
		c = cache.NewMemory()
	}
	app.cache = c

	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	avatarStorage := avatars.NewS3Storage(avatars.S3Config{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})

	app.userService = services.NewUserService(db, rm, mailer, avatarStorage, logger, cfg)
	app.contactService = services.NewContactService(db, rm, c, logger)

	return app, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	api := httpapi.NewServer(app.userService, app.contactService, app.logger, app.config.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server...", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil {
			app.logger.Error(context.Background(), "shutdown close error", "error", err)
		}
	}
}
