// Package runner invokes the external build system once per sweep point and
// records how it went.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
)

const (
	// DefaultTool is the build system front end.
	DefaultTool = "make"
	// DefaultShell interprets the assembled command line.
	DefaultShell = "sh"

	// waitDelay bounds how long output copying may outlive a killed build.
	waitDelay = 2 * time.Second
)

// Invocation describes one call of the build system.
type Invocation struct {
	// Module is exported as FLOW_MODULE.
	Module string
	// Targets are the build targets in order.
	Targets []string
	// BinaryRootDir, when set, is exported as FLOW_BINARY_ROOT_DIR so that
	// artifacts of different configurations do not collide.
	BinaryRootDir string
	// Env holds NAME=value assignments placed before the command.
	Env []string
}

// Result is the outcome of one invocation.
type Result struct {
	Command    string
	ReturnCode int
	Elapsed    time.Duration
	Failed     bool
}

// Runner runs invocations synchronously through a shell.
type Runner struct {
	// WorkDir is the build root. Empty means the current directory.
	WorkDir string
	// Tool is the build command, "make" by default.
	Tool string
	// Shell runs the command line with -c, "sh" by default.
	Shell string

	// Stdout and Stderr receive the child's output; nil means os.Stdout and
	// os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Progress receives the "Running ..." lines; nil means os.Stdout.
	Progress io.Writer
}

// New returns a Runner for the given build root with default settings.
func New(workDir string) *Runner {
	return &Runner{WorkDir: workDir}
}

func (r *Runner) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

func (r *Runner) shell() string {
	if r.Shell == "" {
		return DefaultShell
	}
	return r.Shell
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

// Command assembles the shell command line for inv. The module and binary
// root assignments are appended after inv.Env; an empty Module leaves the
// build system's default module in place.
func (r *Runner) Command(inv Invocation) string {
	parts := make([]string, 0, len(inv.Env)+3+len(inv.Targets))
	parts = append(parts, inv.Env...)
	if inv.Module != "" {
		parts = append(parts, fmt.Sprintf("FLOW_MODULE=\"%s\"", inv.Module))
	}
	if inv.BinaryRootDir != "" {
		parts = append(parts, fmt.Sprintf("FLOW_BINARY_ROOT_DIR=\"%s\"", inv.BinaryRootDir))
	}
	parts = append(parts, r.tool())
	parts = append(parts, inv.Targets...)
	return strings.Join(parts, " ")
}

// shellCommand prepares command to run through the shell in WorkDir. On
// cancellation the whole process tree of the build is killed.
func (r *Runner) shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.shell(), "-c", command)
	cmd.Dir = r.WorkDir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	return cmd
}

// Run executes inv and blocks until the build finishes. A non-zero exit
// status is reported through Result.Failed, not as an error; errors are
// returned only when the shell could not be run at all or ctx was cancelled.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	progress := orDefault(r.Progress, os.Stdout)
	command := r.Command(inv)

	cmd := r.shellCommand(ctx, command)
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)

	fmt.Fprintf(progress, "Running \"%s\"...\n", command)
	logger.Debug("Starting build invocation.", "module", inv.Module, "targets", inv.Targets, "binary_root_dir", inv.BinaryRootDir)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	returnCode := 0
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("build interrupted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %q: %w", command, err)
		}
		returnCode = exitErr.ExitCode()
	}

	res := &Result{
		Command:    command,
		ReturnCode: returnCode,
		Elapsed:    elapsed,
		Failed:     returnCode != 0,
	}

	if res.Failed {
		fmt.Fprintf(progress, "Running \"%s\"... FAILED! (Return code = %d) %.3f s\n", command, returnCode, elapsed.Seconds())
		logger.Warn("Build invocation failed.", "return_code", returnCode, "elapsed", elapsed)
	} else {
		fmt.Fprintf(progress, "Running \"%s\"... OK! %.3f s\n", command, elapsed.Seconds())
		logger.Debug("Build invocation succeeded.", "elapsed", elapsed)
	}
	return res, nil
}
