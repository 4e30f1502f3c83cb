// Package snapshot captures output-directory file metadata so a run can
// infer, by diffing, which files the external tool produced. The tool's
// output naming is not under our control, so membership in "what changed"
// is observed rather than assumed.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry holds the metadata compared between snapshots.
type Entry struct {
	Size    int64
	ModTime time.Time
}

// Snapshot maps output-relative paths (slash-separated) to metadata.
type Snapshot map[string]Entry

// Capture walks dir recursively. A missing dir yields an empty snapshot:
// nothing has been exported there yet.
func Capture(dir string) (Snapshot, error) {
	snap := Snapshot{}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snap, nil
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = Entry{Size: info.Size(), ModTime: info.ModTime()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return snap, nil
}

// Diff returns every path in after that is absent from before or whose size
// or modification time differs, sorted for deterministic output.
func Diff(before, after Snapshot) []string {
	var changed []string
	for path, entry := range after {
		prev, ok := before[path]
		if !ok || prev.Size != entry.Size || !prev.ModTime.Equal(entry.ModTime) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}
