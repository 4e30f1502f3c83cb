package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName derives the per-invocation log name from the input's base
// name: extension stripped, every character outside [A-Za-z0-9._-] replaced
// with an underscore, ".log" appended.
func LogFileName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	b.Grow(len(base) + 4)
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	b.WriteString(".log")
	return b.String()
}

// WriteLog writes the fixed-format log block for one invocation into dir,
// overwriting any prior log with the same derived name. Rerunning a
// previously failed input replaces its log.
func WriteLog(dir, sourcePath string, result Result) (string, error) {
	path := filepath.Join(dir, LogFileName(sourcePath))

	var b strings.Builder
	fmt.Fprintf(&b, "Duration: %.2f ms\n", float64(result.Duration.Microseconds())/1000.0)
	fmt.Fprintf(&b, "Exit code: %d\n", result.ExitCode)
	b.WriteString("=== STDOUT ===\n")
	b.WriteString(sectionBody(result.Stdout))
	b.WriteString("=== STDERR ===\n")
	b.WriteString(sectionBody(result.Stderr))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write invocation log: %w", err)
	}
	return path, nil
}

func sectionBody(text string) string {
	if strings.TrimSpace(text) == "" {
		return "(empty)\n"
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}
