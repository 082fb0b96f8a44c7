package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/raysh454/webcheck/internal/app"
	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/server"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		ids    []string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch and evaluate checks, then save the results.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			run, err := a.Orch.RunIDs(cmd.Context(), ids)
			if err != nil {
				return err
			}
			renderResults(opts.stdout, run.Results)

			if noSave {
				return nil
			}
			if run.Status == app.RunCanceled {
				a.Logger.Warn("run canceled, results not saved", logging.Field{Key: "run_id", Value: run.ID})
				return nil
			}
			return a.Orch.Save()
		},
	}
	cmd.Flags().StringSliceVar(&ids, "check", nil, "run only the check with this id (repeatable)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write results to the store")
	return cmd
}

func newResultsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "results <check-id>",
		Short: "Show the stored results of a check.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.Orch.Check(args[0]); !ok {
				a.Logger.Warn("check is not configured; showing stored results only",
					logging.Field{Key: "check", Value: args[0]})
			}
			renderResults(opts.stdout, a.Store.ByCheck(args[0]))
			return nil
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the config and report problems with the checks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(opts.configPath, opts.logger(nil))
			if err != nil {
				return err
			}
			renderChecks(opts.stdout, cfg.Checks)
			fmt.Fprintf(opts.stdout, "%d checks OK\n", len(cfg.Checks))
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the results API and live result stream.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.Config.ListenAddr
			}
			srv, err := server.NewServer(server.Config{ListenAddr: addr, Logger: a.Logger}, a.Orch)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), srv.HTTPServer(), a.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides listen_addr)")
	return cmd
}

// serve runs hs until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, hs *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: hs.Addr})
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return hs.Shutdown(shutdownCtx)
}
