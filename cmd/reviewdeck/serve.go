package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	githubadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web"
	"github.com/ericfisherdev/reviewdeck/internal/application"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server",
		Action: a.serve,
	}
}

func (a *app) serve(ctx context.Context, _ *cli.Command) error {
	cfg, logger := a.cfg, a.logger
	logger.Info().
		Str("env", cfg.Env).
		Str("listen_addr", cfg.ListenAddr).
		Str("base_path", cfg.BasePath).
		Str("db_path", cfg.DBPath).
		Dur("view_ttl", cfg.ViewTTL).
		Msg("config loaded")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, prSvc, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("error closing database")
		}
	}()

	writer, err := githubadapter.NewDryRunWriter(cfg.RepoFullName, logger)
	if err != nil {
		return err
	}

	views := application.NewViewRegistry(prSvc, writer, application.RegistryOptions{
		BasePath:      cfg.BasePath,
		TTL:           cfg.ViewTTL,
		SweepInterval: cfg.SweepInterval,
		Logger:        logger,
	})

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(prSvc, views, db.Ping, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(prSvc, views, cfg.BasePath, logger))

	handler := httphandler.ApplyMiddleware(httphandler.MountAt(cfg.BasePath, mux), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return views.Start(gctx)
	})

	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Str("base_path", cfg.BasePath).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
