// Package cli wires the webcheck command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raysh454/webcheck/internal/app"
	"github.com/raysh454/webcheck/internal/logging"
)

type rootOptions struct {
	configPath string
	debug      bool

	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd builds the command tree writing tables to stdout and logs to
// stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "webcheck",
		Short:         "webcheck watches web pages for content that appears, disappears or matches a selector.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "webcheck.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newRunCmd(opts),
		newResultsCmd(opts),
		newValidateCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// ExecuteContext runs the CLI against os.Args and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logger builds the stderr logger; level comes from config unless --debug.
func (o *rootOptions) logger(cfg *app.Config) logging.Logger {
	level := logging.LevelInfo
	if cfg != nil {
		level = cfg.Level()
	}
	if o.debug {
		level = logging.LevelDebug
	}
	return logging.NewWriterLogger(o.stderr, "webcheck", level)
}

// loadApp reads the config and builds the application around it.
func (o *rootOptions) loadApp() (*app.Application, error) {
	bootLogger := o.logger(nil)
	cfg, err := app.LoadConfig(o.configPath, bootLogger)
	if err != nil {
		return nil, err
	}
	return app.NewApplication(cfg, o.logger(cfg))
}
