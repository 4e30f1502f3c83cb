package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"chkexport/internal/config"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "completed.txt")
	cfg.Paths.ManifestPath = filepath.Join(base, "manifest.txt")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", "/data/maps"); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordInvocation(ctx, "run-1", "/data/maps/alpha.chk", 0, 25*time.Millisecond, true); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordInvocation(ctx, "run-1", "/data/maps/beta.chk", 3, 5*time.Millisecond, false); err != nil {
		t.Fatal(err)
	}
	counts := Counts{Discovered: 3, Processed: 2, Skipped: 1, Failed: 1, Changed: 4}
	if err := store.FinishRun(ctx, "run-1", counts); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.InputPath != "/data/maps" {
		t.Fatalf("unexpected run %+v", run)
	}
	if !run.Finished {
		t.Fatal("run should be finished")
	}
	if run.Counts != counts {
		t.Fatalf("counts: got %+v, want %+v", run.Counts, counts)
	}

	n, err := store.InvocationCount(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("invocation count: got %d", n)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "older", "/a"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := store.BeginRun(ctx, "newer", "/b"); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "newer" {
		t.Fatalf("expected newest run only, got %+v", runs)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := newStore(t)
	if err := store.FinishRun(context.Background(), "ghost", Counts{}); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}
