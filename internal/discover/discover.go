// Package discover enumerates compilation units under a source tree.
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of generated kernel source files.
const SourceExt = ".cu"

// Files returns the sorted list of absolute paths to all files with the
// given extension under root, recursing into subdirectories. An existing
// directory with no matches yields an empty slice and no error.
func Files(root, ext string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir visits entries in lexical order per directory, but the final
	// list must be deterministic across the whole tree.
	sort.Strings(files)
	return files, nil
}

// Sources returns all .cu files under root.
func Sources(root string) ([]string, error) {
	return Files(root, SourceExt)
}
