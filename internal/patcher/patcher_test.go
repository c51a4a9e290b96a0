package patcher

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/specialistvlad/fpgasweep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := testutil.WriteFiles(t, t.TempDir(), map[string]string{DefaultPath: content})
	return filepath.Join(root, DefaultPath)
}

func TestSetDatastreamWidth_ReplacesOnlyTargetLine(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	path := writeConfig(t, testutil.ConfigPackage)

	require.NoError(t, New(path).SetDatastreamWidth(ctx, 128))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	before := strings.Split(testutil.ConfigPackage, "\n")
	after := strings.Split(string(got), "\n")
	require.Len(t, after, len(before), "line count must be preserved")

	changed := 0
	for i := range before {
		if before[i] == after[i] {
			continue
		}
		changed++
		assert.Equal(t, "  constant DATASTREAM_DATA_WIDTH : integer := 128;", after[i])
	}
	assert.Equal(t, 1, changed)
}

func TestSetDatastreamWidth_IsRepeatable(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	path := writeConfig(t, testutil.ConfigPackage)
	p := New(path)

	require.NoError(t, p.SetDatastreamWidth(ctx, 128))
	require.NoError(t, p.SetDatastreamWidth(ctx, DefaultDatastreamWidth))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.ConfigPackage, string(got))
}

func TestSetIntConstant_PreservesOtherBytes(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	// CRLF lines, a tab-indented line and no trailing newline all survive.
	content := "-- header\r\n\tconstant DATASTREAM_DATA_WIDTH : integer := 64;\r\n\tconstant OTHER : integer := 1;"
	path := writeConfig(t, content)

	require.NoError(t, New(path).SetIntConstant(ctx, "DATASTREAM_DATA_WIDTH", 32))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "-- header\r\n  constant DATASTREAM_DATA_WIDTH : integer := 32;\n\tconstant OTHER : integer := 1;", string(got))
}

func TestSetIntConstant_NoMatchLeavesFileAndWarns(t *testing.T) {
	ctx, logs := testutil.NewLogContext(t)
	content := "package empty is\nend package;\n"
	path := writeConfig(t, content)

	require.NoError(t, New(path).SetDatastreamWidth(ctx, 128))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.Contains(t, logs.String(), "Constant not found")
}

func TestSetIntConstant_KeepsFileMode(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	path := writeConfig(t, testutil.ConfigPackage)
	require.NoError(t, os.Chmod(path, 0640))

	require.NoError(t, New(path).SetDatastreamWidth(ctx, 256))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestSetIntConstant_LeavesNoTemporaryFiles(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	path := writeConfig(t, testutil.ConfigPackage)

	require.NoError(t, New(path).SetDatastreamWidth(ctx, 128))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestSetIntConstant_MissingFile(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	path := filepath.Join(t.TempDir(), "hdl", "missing.vhd")

	err := New(path).SetDatastreamWidth(ctx, 128)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestSetIntConstant_ReadOnlyDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	ctx, _ := testutil.NewLogContext(t)
	path := writeConfig(t, testutil.ConfigPackage)
	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := New(path).SetDatastreamWidth(ctx, 128)
	require.Error(t, err)
}
