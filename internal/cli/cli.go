package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/fpgasweep/internal/app"
	"github.com/specialistvlad/fpgasweep/internal/config"
	"github.com/specialistvlad/fpgasweep/internal/hcl"
	"github.com/specialistvlad/fpgasweep/internal/yamlconf"
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

const (
	// usageExitCode is returned for invalid flags, arguments and settings.
	usageExitCode = 2
	// maxExitCode caps the failure count so it cannot wrap around to 0.
	maxExitCode = 255
)

// newLoader returns the loader for every supported sweep file format.
func newLoader() config.Loader {
	yl := yamlconf.NewLoader()
	return config.NewMultiLoader(map[string]config.FileLoader{
		".hcl":  hcl.NewLoader(),
		".yaml": yl,
		".yml":  yl,
	})
}

func usageError(err error) error {
	return &ExitError{Code: usageExitCode, Message: err.Error()}
}

// NewRootCommand builds the command tree. Command output goes to outW, logs
// and errors to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	cfg := app.DefaultConfig()
	var module string

	newApp := func(paths []string) (*app.App, error) {
		c := cfg
		c.Paths = paths
		c.LogLevel = strings.ToLower(c.LogLevel)
		c.LogFormat = strings.ToLower(c.LogFormat)
		appConfig, err := app.NewConfig(c)
		if err != nil {
			return nil, usageError(err)
		}
		return app.NewApp(outW, errW, appConfig, newLoader()), nil
	}

	root := &cobra.Command{
		Use:   "fpgasweep",
		Short: "Run FPGA build and simulation sweeps through make",
		Long: `fpgasweep enumerates combinations of hardware generics and tool
strategies from sweep definition files (.hcl, .yaml), runs the make based
build once per combination and prints a pass/fail summary.

The exit status is the number of failed points, capped at 255.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "Root directory of the build system.")
	pf.StringVar(&cfg.ConfigFile, "config-file", cfg.ConfigFile, "VHDL config package to patch, relative to --workdir.")
	pf.StringVar(&cfg.Tool, "tool", cfg.Tool, "Build command invoked for every point.")
	pf.StringVar(&cfg.Backend, "backend", "", "Simulation backend; skips probing the build system for it.")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")

	runCmd := &cobra.Command{
		Use:   "run [flags] PATH...",
		Short: "Run a sweep and print the summary",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(args)
			if err != nil {
				return err
			}
			failed, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			return failureExit(failed)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [flags] PATH...",
		Short: "Print the points of a sweep without running them",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(args)
			if err != nil {
				return err
			}
			return a.List(cmd.Context())
		},
	}

	for _, c := range []*cobra.Command{runCmd, listCmd} {
		c.Flags().StringVar(&cfg.Sweep, "sweep", "", "Name of the sweep to run; required when several are loaded.")
	}

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "Print the simulation backend reported by the build system",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(nil)
			if err != nil {
				return err
			}
			_, err = a.Backend(cmd.Context(), module)
			return err
		},
	}
	backendCmd.Flags().StringVar(&module, "module", "", "Module whose info target is queried; empty uses the build system's default.")

	root.AddCommand(runCmd, listCmd, backendCmd)
	return root
}

// failureExit turns the failure count of a finished sweep into the process
// exit status.
func failureExit(failed int) error {
	if failed == 0 {
		return nil
	}
	return &ExitError{Code: min(failed, maxExitCode), Message: fmt.Sprintf("%d sweep point(s) failed.", failed)}
}

func requirePaths(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(errors.New("at least one sweep file or directory is required"))
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(fmt.Errorf("%s takes no arguments, got %q", cmd.Name(), args))
	}
	return nil
}

// Execute runs the command line args. Errors that cobra reports before a
// command starts, such as an unknown subcommand, become usage errors.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if cmd == root || !cmd.Runnable() {
		return usageError(err)
	}
	return err
}
