// Package driver orchestrates analysis over many units: loading serialized
// unit containers, running sessions in parallel, memoizing results on disk
// and aggregating statistics for the CLI.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"janus/internal/ast"
	"janus/internal/source"
)

// UnitExt is the extension of serialized unit containers produced by the
// front end.
const UnitExt = ".jnu"

// listUnitFiles returns the sorted container paths directly under dir.
func listUnitFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), UnitExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadedUnit pairs a decoded unit with its origin path.
type LoadedUnit struct {
	Path string
	Unit *ast.Unit
}

// LoadUnits decodes every container under dir into a shared file set and
// string interner. Unit IDs are assigned in path order, so a directory
// always loads deterministically.
func LoadUnits(dir string) (*source.FileSet, *source.Interner, []LoadedUnit, error) {
	files, err := listUnitFiles(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	fs := source.NewFileSet()
	names := source.NewInterner()
	units := make([]LoadedUnit, 0, len(files))
	for i, path := range files {
		u, err := loadOne(path, ast.UnitID(i+1), fs, names)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		units = append(units, LoadedUnit{Path: path, Unit: u})
	}
	return fs, names, units, nil
}

func loadOne(path string, id ast.UnitID, fs *source.FileSet, names *source.Interner) (*ast.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ast.DecodeUnit(f, id, fs, names)
}
