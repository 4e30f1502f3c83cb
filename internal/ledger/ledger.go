// Package ledger persists the set of completed inputs so reruns can skip
// work already done. Entries are keyed by base file name only, not full
// path: two inputs with the same name in different subdirectories shadow
// each other across runs. That collision is a known, accepted tradeoff of
// the format, kept as-is pending a product decision.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Ledger is the in-memory view of the completed-input file. The file is
// plain text, one base name per line, append-only; duplicates on disk are
// harmless because membership is tested against the set.
type Ledger struct {
	path string
	done map[string]struct{}
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path, done: map[string]struct{}{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		l.done[name] = struct{}{}
	}
	return l, nil
}

// Contains reports whether name was completed on this or a prior run.
func (l *Ledger) Contains(name string) bool {
	_, ok := l.done[name]
	return ok
}

// Append records name as completed, creating the file if absent. The write
// happens before the next input is considered, so a crash can at worst lose
// the most recent entry.
func (l *Ledger) Append(name string) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(name + "\n"); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	l.done[name] = struct{}{}
	return nil
}

// Len returns the number of distinct completed names.
func (l *Ledger) Len() int {
	return len(l.done)
}
