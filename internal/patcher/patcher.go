// Package patcher rewrites integer constants in the generated VHDL config
// package. Some parameters of the design are package constants rather than
// generics, so they cannot travel through the build variables and have to be
// written into the source before each build.
package patcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
)

// DefaultPath is the config package location relative to the build root.
const DefaultPath = "hdl/memsec_config.vhd"

// DatastreamWidthConstant is the constant holding the datapath width.
const DatastreamWidthConstant = "DATASTREAM_DATA_WIDTH"

// DefaultDatastreamWidth is written when a sweep point does not set a width.
const DefaultDatastreamWidth = 64

// Patcher edits one config file in place.
type Patcher struct {
	// Path is the file to rewrite.
	Path string
}

// New returns a Patcher for path.
func New(path string) *Patcher {
	return &Patcher{Path: path}
}

// SetDatastreamWidth sets DATASTREAM_DATA_WIDTH to width.
func (p *Patcher) SetDatastreamWidth(ctx context.Context, width int64) error {
	return p.SetIntConstant(ctx, DatastreamWidthConstant, width)
}

// SetIntConstant replaces every line mentioning name with a declaration of
// name as an integer constant of the given value. Other lines are copied
// unchanged. The new content is written next to the original and renamed
// over it.
func (p *Patcher) SetIntConstant(ctx context.Context, name string, value int64) error {
	logger := ctxlog.FromContext(ctx).With("file", p.Path, "constant", name)
	logger.Info("Configuring config constant.", "value", value)

	in, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", p.Path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file %s: %w", p.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.Path), filepath.Base(p.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", p.Path, err)
	}
	tmpName := tmp.Name()
	// Removing after a successful rename fails harmlessly.
	defer os.Remove(tmpName)

	replaced, err := rewrite(in, tmp, name, Declaration(name, value))
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to rewrite config file %s: %w", p.Path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, p.Path); err != nil {
		return fmt.Errorf("failed to replace config file %s: %w", p.Path, err)
	}

	if replaced == 0 {
		logger.Warn("Constant not found in config file, nothing replaced.")
	} else {
		logger.Debug("Config file rewritten.", "replaced_lines", replaced)
	}
	return nil
}

// Declaration renders the VHDL line written for an integer constant.
func Declaration(name string, value int64) string {
	return fmt.Sprintf("  constant %s : integer := %d;\n", name, value)
}

// rewrite copies r to w line by line, swapping lines that contain name for
// replacement. It returns how many lines were swapped.
func rewrite(r io.Reader, w io.Writer, name, replacement string) (int, error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	replaced := 0

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			out := line
			if strings.Contains(line, name) {
				out = replacement
				replaced++
			}
			if _, werr := bw.WriteString(out); werr != nil {
				return replaced, werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return replaced, err
		}
	}
	return replaced, bw.Flush()
}
