package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestCaptureMissingDir(t *testing.T) {
	snap, err := Capture(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
}

func TestCaptureRecordsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "maps"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "maps", "alpha.dat"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := Capture(dir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	entry, ok := snap["maps/alpha.dat"]
	if !ok {
		t.Fatalf("missing entry, snapshot: %v", snap)
	}
	if entry.Size != 3 {
		t.Fatalf("size: got %d", entry.Size)
	}
}

func TestDiff(t *testing.T) {
	now := time.Now()
	before := Snapshot{
		"kept.dat":    {Size: 1, ModTime: now},
		"resized.dat": {Size: 1, ModTime: now},
		"touched.dat": {Size: 1, ModTime: now},
	}
	after := Snapshot{
		"kept.dat":    {Size: 1, ModTime: now},
		"resized.dat": {Size: 2, ModTime: now},
		"touched.dat": {Size: 1, ModTime: now.Add(time.Second)},
		"new.dat":     {Size: 5, ModTime: now},
	}

	got := Diff(before, after)
	want := []string{"new.dat", "resized.dat", "touched.dat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDiffUnchangedIsEmpty(t *testing.T) {
	now := time.Now()
	snap := Snapshot{"a.dat": {Size: 1, ModTime: now}}
	if got := Diff(snap, snap); len(got) != 0 {
		t.Fatalf("expected empty diff, got %v", got)
	}
}
