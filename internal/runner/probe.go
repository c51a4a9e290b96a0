package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
)

// ErrBackendNotFound is returned when the info output names no backend.
var ErrBackendNotFound = errors.New("no FLOW_BACKEND in build info output")

var (
	backendPattern     = regexp.MustCompile(`FLOW_BACKEND:\s+(\w+)`)
	backendNamePattern = regexp.MustCompile(`^\w+$`)
)

// IsBackendName reports whether name could have been reported by the info
// target.
func IsBackendName(name string) bool {
	return backendNamePattern.MatchString(name)
}

// ParseBackend extracts the backend identifier from the output of the info
// target.
func ParseBackend(info []byte) (string, error) {
	m := backendPattern.FindSubmatch(info)
	if m == nil {
		return "", ErrBackendNotFound
	}
	return string(m[1]), nil
}

// ProbeBackend asks the build system which simulation backend is active by
// running its info target and parsing the output. An empty module runs the
// plain info target of the build system's default module. Unlike Run, a
// non-zero exit status is an error here.
func ProbeBackend(ctx context.Context, r *Runner, module string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	command := r.Command(Invocation{Module: module, Targets: []string{"info"}})

	var stdout bytes.Buffer
	cmd := r.shellCommand(ctx, command)
	cmd.Stdout = &stdout
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)

	logger.Debug("Probing build backend.", "command", command)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run %q: %w", command, err)
	}

	backend, err := ParseBackend(stdout.Bytes())
	if err != nil {
		return "", fmt.Errorf("probing %q: %w", command, err)
	}
	logger.Info("Detected build backend.", "backend", backend)
	return backend, nil
}
