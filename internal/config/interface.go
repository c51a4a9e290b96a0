package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/fpgasweep/internal/ctxlog"
	"github.com/specialistvlad/fpgasweep/internal/fsutil"
)

// Loader is the interface for reading sweep definitions from files and
// directories.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// FileLoader reads the sweeps of a single file in one concrete format.
type FileLoader interface {
	LoadFile(ctx context.Context, path string) ([]*Sweep, error)
}

// MultiLoader dispatches files to format loaders by file extension.
type MultiLoader struct {
	formats map[string]FileLoader
}

// NewMultiLoader returns a loader for the given extension to loader mapping.
// Extensions include the dot, e.g. ".hcl".
func NewMultiLoader(formats map[string]FileLoader) *MultiLoader {
	return &MultiLoader{formats: formats}
}

// Load reads every supported file named in paths. Directories are searched
// recursively; files within a directory are read in lexical order.
func (l *MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sweep loader started.", "path_count", len(paths))

	files, err := l.findFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered sweep files.", "count", len(files))

	model := &Model{}
	for _, file := range files {
		fl := l.formats[strings.ToLower(filepath.Ext(file))]
		sweeps, err := fl.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		for _, s := range sweeps {
			s.Source = file
		}
		model.Sweeps = append(model.Sweeps, sweeps...)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Sweep loading complete.", "sweeps", len(model.Sweeps))
	return model, nil
}

func (l *MultiLoader) findFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	exts := make([]string, 0, len(l.formats))
	for ext := range l.formats {
		exts = append(exts, ext)
	}

	for _, path := range paths {
		isDir, err := fsutil.IsDir(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !isDir {
			if _, ok := l.formats[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil, fmt.Errorf("unsupported sweep file %s", path)
			}
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, exts...)
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
