package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/nanopost/internal/app"
	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// command carries what every subcommand needs to build an App.
type command struct {
	outW   io.Writer
	loader config.Loader
	global *globalFlags
}

func (c *command) newApp() (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{LogLevel: c.global.logLevel, LogFormat: c.global.logFormat})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(c.outW, cfg, c.loader), nil
}

// NewRootCommand builds the nanopost command tree. Output and logs go to outW.
func NewRootCommand(outW io.Writer, loader config.Loader) *cobra.Command {
	c := &command{outW: outW, loader: loader, global: &globalFlags{}}

	root := &cobra.Command{
		Use:   "nanopost",
		Short: "NanoAOD post-processing: grid submission and cutflow skims",
		Long: `nanopost submits NanoAOD post-processing jobs to the grid, one request per
dataset, and runs the cutflow skim locally over JSON Lines event files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	root.PersistentFlags().StringVar(&c.global.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&c.global.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newSubmitCommand(c),
		newSkimCommand(c),
		newMergeCommand(c),
		newNameCommand(c),
	)
	return root
}

// Execute runs the command tree with args. Invalid flags and arguments are
// returned as *ExitError with code 2.
func Execute(ctx context.Context, outW io.Writer, loader config.Loader, args []string) error {
	root := NewRootCommand(outW, loader)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return fmt.Errorf("nanopost: %w", err)
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError(fmt.Errorf("%s requires at least %d %s", cmd.CommandPath(), n, what))
		}
		return nil
	}
}
