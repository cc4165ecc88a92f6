package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"nugettree/internal/api"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command exposing resolution over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency resolution over an HTTP API",
		Long: `Start an HTTP server exposing package and tree resolution as JSON.

Routes:
  GET /healthz
  GET /v1/package/{id}?version=&framework=
  GET /v1/tree/{id}?version=&framework=

The server shares the configured cache backend across requests and shuts
down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// runServe runs the HTTP server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	client, closer, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	srv := &http.Server{
		Addr:    addr,
		Handler: api.New(client, c.Logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s (source: %s)", addr, client.Source())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
