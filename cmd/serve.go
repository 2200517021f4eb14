package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/handler"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}
			slog.Info("configuration loaded successfully", "auth_enabled", cfg.AuthEnabled(), "storage_type", cfg.Storage.Type)

			flows := newWorkflows(cfg)
			// a failure here only disables uploads
			if err := flows.multiDoc.StorageReady(); err != nil {
				slog.Error("uploads disabled", "error", err)
			}

			gin.SetMode(gin.ReleaseMode)
			sessions := service.NewSessionStore(time.Duration(cfg.Session.TTLHours) * time.Hour)
			router, err := handler.NewRouter(handler.Dependencies{
				Config:   cfg,
				Sessions: sessions,
				MultiDoc: flows.multiDoc,
				RentRoll: flows.rentRoll,
			})
			if err != nil {
				return err
			}

			// analysis calls may take the full API timeout
			writeTimeout := time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second + time.Minute
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  5 * time.Minute,
				WriteTimeout: writeTimeout,
				IdleTimeout:  120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server starting", "port", cfg.Server.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			slog.Info("shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			slog.Info("server exited gracefully")
			return nil
		},
	}
}
