// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"chkexport/internal/config"
)

// Env bundles a test configuration rooted in a unique temp directory with a
// stub extraction tool already in place.
type Env struct {
	Config  *config.Config
	BaseDir string
}

// NewEnv produces a config seeded with temp directories and a stub tool
// binary that exits 0. Tests that drive the real executor can point the
// tool path elsewhere.
func NewEnv(t testing.TB) *Env {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "completed.txt")
	cfgVal.Paths.ManifestPath = filepath.Join(base, "manifest.txt")
	cfgVal.Tool.Path = StubTool(t, base, 0)

	return &Env{Config: &cfgVal, BaseDir: base}
}

// StubTool writes an executable shell script exiting with the given code
// and returns its path.
func StubTool(t testing.TB, baseDir string, exitCode int) string {
	t.Helper()

	binDir := filepath.Join(baseDir, "tools")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir tool dir: %v", err)
	}
	path := filepath.Join(binDir, "chkextract")
	script := "#!/bin/sh\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub tool: %v", err)
	}
	return path
}
