package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pets/internal/httpapi"
)

const (
	defaultServeAddr = "127.0.0.1:8080"
	shutdownTimeout  = 5 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve exposes the catalog on /pets until interrupted.

  GET    /pets          list (query: sort, columns, gender)
  GET    /pets/{id}     one pet
  POST   /pets          add a pet; Location is its content address
  PUT    /pets/{id}     update
  DELETE /pets/{id}     delete`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func (a *app) serve(ctx context.Context, cmd *cobra.Command, addr string) error {
	p, err := a.openProvider()
	if err != nil {
		return err
	}
	defer p.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return sysError(fmt.Errorf("listen %s: %w", addr, err))
	}

	srv := &http.Server{
		Handler:           httpapi.NewRouter(p, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving pets on http://%s\n", ln.Addr())
	a.logger.Info("server started", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return sysError(fmt.Errorf("serve: %w", err))
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return sysError(fmt.Errorf("shutdown: %w", err))
	}
	return nil
}
