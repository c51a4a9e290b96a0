package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/fpgasweep/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"run", "--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_InvalidDefinition(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A sweep file with a syntax error fails loading before any build runs.
	invalidHCL := `
		sweep "broken" {
			module = "memsec"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, &bytes.Buffer{}, []string{"run", filePath})

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "failed to parse")
	require.NotContains(t, out.String(), "Running", "no build may start")
}

func TestRun_InterruptStopsBuild(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "hdl"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "hdl", "memsec_config.vhd"), []byte("  constant DATASTREAM_DATA_WIDTH : integer := 64;\n"), 0644))
	sweepHCL := `
sweep "slow" {
  module = "memsec"
  mode   = "test"
  group "g" {
    config "a" {}
    config "b" {}
  }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "slow.hcl"), []byte(sweepHCL), 0644))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	out := &bytes.Buffer{}

	// --- Act ---
	start := time.Now()
	err := run(ctx, out, &bytes.Buffer{}, []string{"run", "--workdir", tempDir, "--tool", "sleep 10;", filepath.Join(tempDir, "slow.hcl")})

	// --- Assert ---
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Contains(t, out.String(), "Summary:")
}
