// Command riskd runs the risk register service and its maintenance tasks.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibbank/risk-service/internal/infrastructure/config"
	"github.com/bibbank/risk-service/pkg/observability"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// app carries what every subcommand shares once flags are parsed.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	logLevel  string
	logFormat string
	storage   string
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "riskd",
		Short:         "Risk register service",
		Long:          "riskd records operational risks, scores them and tracks them through their workflow.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			if cmd.Flags().Changed("storage") {
				a.cfg.Storage.Driver = a.storage
			}
			if cmd.Flags().Changed("log-level") {
				a.cfg.Log.Level = a.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				a.cfg.Log.Format = a.logFormat
			}
			a.logger = observability.InitLogger(observability.LogConfig{
				Level:       a.cfg.Log.Level,
				Format:      a.cfg.Log.Format,
				Output:      logOutput,
				ServiceName: a.cfg.ServiceName,
			})
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.storage, "storage", "", "Storage driver: postgres, sqlite or memory (overrides STORAGE_DRIVER)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: json or text (overrides LOG_FORMAT)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newScoreCmd(a),
		newWatchCmd(a),
	)
	return root
}

// validated checks the configuration for commands that touch storage.
func (a *app) validated() error {
	if err := a.cfg.Validate(); err != nil {
		return codeError(2, "invalid configuration: %s", err)
	}
	return nil
}
