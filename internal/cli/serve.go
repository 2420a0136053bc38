package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"modelcheck/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Example: "  modelcheck serve --addr :8090\n" +
			"  modelcheck serve --history-db ~/.modelcheck/history.db --cors-origin http://localhost:5173",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address (default :8090)")
	f.String("output-dir", "", "Directory saved files are written to (must exist)")
	f.StringSlice("format", nil, "Save format, repeatable, in save order (default xml,json)")
	f.String("models-dir", "", "Also check every saved model file in this directory")
	f.Bool("continue-on-error", false, "Attempt every step and report all failures")
	f.String("metrics-file", "", "Write Prometheus textfile metrics here after each run")
	f.String("history-db", "", "Record runs in this SQLite database")
	f.StringSlice("cors-origin", nil, "Allowed CORS origin, repeatable (CORS is off when empty)")
	return cmd
}

// serve blocks until ctx is canceled, then shuts the server down gracefully.
func (a *app) serve(ctx context.Context) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := a.newService(nil, store)
	httpapi.SetLogger(a.log)
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           httpapi.NewMux(svc, httpapi.Options{BaseContext: ctx, CORSOrigins: a.cfg.CORSOrigins, Swagger: true}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.Addr).Int("models", len(a.cfg.Models)).
			Strs("formats", a.cfg.Formats).Bool("history", store != nil).Msg("modelcheck listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	a.log.Info().Msg("modelcheck stopped")
	return nil
}
