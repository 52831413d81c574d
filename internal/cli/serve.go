package cli

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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/example/horas/internal/adapters/httpapi"
	"github.com/example/horas/internal/config"
	"github.com/example/horas/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			log := wire.Logger()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.HTTP.Address
			}
			if len(cfg.HTTP.SessionSecret) < config.MinSessionSecret {
				return fmt.Errorf("http.session_secret (or HORAS_SESSION_SECRET) of at least %d bytes is required", config.MinSessionSecret)
			}
			if cfg.SlogLevel() > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := httpapi.NewRouter(wire.HTTPServices(), cfg.HTTP.SessionSecret, log)
			return run(ctx, &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}, log)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides http.address)")
	return cmd
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
