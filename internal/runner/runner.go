package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"chkexport/internal/config"
	"chkexport/internal/extract"
	"chkexport/internal/history"
	"chkexport/internal/ledger"
	"chkexport/internal/manifest"
	"chkexport/internal/scan"
	"chkexport/internal/snapshot"
)

// SourceExtension is the archive extension this deployment exports.
const SourceExtension = ".chk"

// ErrLocked is returned when another export run holds the run lock.
var ErrLocked = errors.New("another export run is in progress")

// Summary reports the outcome of one batch run.
type Summary struct {
	RunID        string
	InputPath    string
	Discovered   int
	Processed    int
	Skipped      int
	Failed       int
	Changed      []string
	ManifestPath string
}

// Runner sequences a batch export: scan, snapshot, invoke per input with
// ledger skip, snapshot again, diff, render the manifest. Strictly
// sequential; one tool invocation runs to completion before the next.
type Runner struct {
	cfg     *config.Config
	invoker extract.Invoker
	store   *history.Store
	logger  *slog.Logger
}

// New constructs a runner. The history store may be nil, in which case run
// history is not recorded.
func New(cfg *config.Config, invoker extract.Invoker, store *history.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires config")
	}
	if invoker == nil {
		return nil, errors.New("runner requires an invoker")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		cfg:     cfg,
		invoker: invoker,
		store:   store,
		logger:  logger.With("component", "runner"),
	}, nil
}

// Run executes one batch over inputPath (a .chk file or a directory tree).
// Per-invocation failures do not stop the loop; they are counted in the
// summary and the failed inputs stay out of the ledger so a later run
// retries them.
func (r *Runner) Run(ctx context.Context, inputPath string) (*Summary, error) {
	inputPath, err := config.ExpandPath(inputPath)
	if err != nil {
		return nil, err
	}

	// Preconditions come before any output directory is touched.
	if _, err := os.Stat(r.cfg.Tool.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("extraction tool not found at %s", r.cfg.Tool.Path)
		}
		return nil, fmt.Errorf("stat extraction tool: %w", err)
	}

	sources, err := scan.Sources(inputPath, SourceExtension)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        uuid.NewString(),
		InputPath:    inputPath,
		Discovered:   len(sources),
		ManifestPath: r.cfg.Paths.ManifestPath,
	}
	log := r.logger.With("run_id", summary.RunID)

	if len(sources) == 0 {
		// Nothing to do: ledger and snapshots stay untouched, the manifest
		// is still rewritten (empty) so stale content never survives.
		if err := writeManifest(r.cfg.Paths.ManifestPath, ""); err != nil {
			return nil, err
		}
		log.Info("no inputs found", "input", inputPath)
		return summary, nil
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "chkexport.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	led, err := ledger.Load(r.cfg.Paths.LedgerPath)
	if err != nil {
		return nil, err
	}

	before, err := snapshot.Capture(r.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		if err := r.store.BeginRun(ctx, summary.RunID, inputPath); err != nil {
			return nil, err
		}
	}

	log.Info("starting export batch", "inputs", len(sources), "completed_before", led.Len())

	for _, source := range sources {
		name := filepath.Base(source)
		if led.Contains(name) {
			summary.Skipped++
			log.Debug("skipping completed input", "source", name)
			continue
		}

		result := r.invoker.Extract(ctx, source)

		logPath, err := extract.WriteLog(r.cfg.Paths.LogDir, source, result)
		if err != nil {
			return nil, err
		}
		if r.store != nil {
			if err := r.store.RecordInvocation(ctx, summary.RunID, source, result.ExitCode, result.Duration, result.Success()); err != nil {
				return nil, err
			}
		}

		if !result.Success() {
			summary.Failed++
			log.Warn("extraction failed",
				"source", name,
				"exit_code", result.ExitCode,
				"log", logPath,
			)
			continue
		}

		if err := led.Append(name); err != nil {
			return nil, err
		}
		summary.Processed++
		log.Info("extracted", "source", name, "duration", result.Duration)
	}

	after, err := snapshot.Capture(r.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}
	summary.Changed = snapshot.Diff(before, after)

	if err := writeManifest(r.cfg.Paths.ManifestPath, manifest.Render(summary.Changed)); err != nil {
		return nil, err
	}

	if r.store != nil {
		counts := history.Counts{
			Discovered: summary.Discovered,
			Processed:  summary.Processed,
			Skipped:    summary.Skipped,
			Failed:     summary.Failed,
			Changed:    len(summary.Changed),
		}
		if err := r.store.FinishRun(ctx, summary.RunID, counts); err != nil {
			return nil, err
		}
	}

	log.Info("batch complete",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"changed", len(summary.Changed),
	)
	return summary, nil
}

func writeManifest(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
