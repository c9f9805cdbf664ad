package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/persistorai/kinnet/internal/api"
	"github.com/persistorai/kinnet/internal/config"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API against the store named by STORE_DRIVER.
Configuration is read from the environment (DATABASE_URL, SQLITE_PATH, PORT, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr: rt.cfg.Addr(),
		Handler: api.NewRouter(ctx, &api.RouterDeps{
			Log:         rt.log,
			Network:     rt.svc,
			Persons:     rt.svc,
			Store:       rt.store,
			StoreDriver: rt.cfg.StoreDriver,
			CORSOrigins: rt.cfg.CORSOrigins,
			Version:     config.Version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.WithField("addr", srv.Addr).Info("http.listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("http.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}
