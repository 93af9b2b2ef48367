package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/auth"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/backoffice"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/config"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/postgres"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/accesslog"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/unzip"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmcontext "github.com/avito-tech/go-transaction-manager/trm/v2/context"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nanmu42/gzip"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server version.
	logger := logger.New(cfg).With(serverCtx, "version", Version)

	db, err := postgres.Connect(cfg, logger)
	if err != nil {
		return err
	}

	// Close connection.
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(err)
		}
		_ = logger.Sync()
	}()

	if err = postgres.Migrate(db); err != nil {
		return err
	}

	// Create default transaction manager for database/sql package.
	trManager := manager.Must(
		trmsql.NewDefaultFactory(db),
		manager.WithCtxManager(trmcontext.DefaultManager),
	)

	// Init repository for auth service.
	authRepo, err := auth.NewRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init auth repository: %w", err)
	}

	// Init auth service.
	authService, err := auth.NewService(authRepo, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	// Init repository for back office service.
	officeRepo, err := backoffice.NewRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init back office repository: %w", err)
	}

	// Init back office service.
	officeService, err := backoffice.NewService(officeRepo, trManager, logger)
	if err != nil {
		return fmt.Errorf("failed to init back office service: %w", err)
	}

	// Create root router.
	router := initRootRouter(logger)

	// Auth routes.
	auth.HandlerWithOptions(authService, auth.ChiServerOptions{
		BaseURL:          "/api/user",
		BaseRouter:       router,
		ErrorHandlerFunc: auth.ErrorHandlerFunc,
	})

	// Back office routes, all authenticated.
	backoffice.HandlerWithOptions(officeService, backoffice.ChiServerOptions{
		BaseURL:          "/api",
		BaseRouter:       router,
		Middlewares:      []backoffice.MiddlewareFunc{authService.Middleware},
		ErrorHandlerFunc: backoffice.ErrorHandlerFunc,
	})

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("Server %v is running at %v", Version, cfg.HTTPServer.Address)
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}

func initRootRouter(logger logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(accesslog.Handler(logger))
	router.Use(middleware.Recoverer)
	router.Use(gzip.DefaultHandler().WrapHandler)
	router.Use(unzip.Middleware(logger))

	return router
}
