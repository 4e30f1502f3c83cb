// Package scan discovers extraction inputs under a root path.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when the scan root does not exist.
var ErrNotFound = errors.New("input path not found")

// Sources returns every file under root whose name ends with ext,
// case-insensitively. A root that is itself a matching file yields a
// single-element slice. The result is sorted by full path ascending; this
// ordering governs processing order.
func Sources(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		if matchesExt(root, ext) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var found []string
	// Explicit worklist; visitation order is arbitrary, the final sort is
	// what callers rely on.
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				stack = append(stack, path)
				continue
			}
			if matchesExt(entry.Name(), ext) {
				found = append(found, path)
			}
		}
	}

	sort.Strings(found)
	return found, nil
}

func matchesExt(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}
