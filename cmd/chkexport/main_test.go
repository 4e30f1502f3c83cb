package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chkexport/internal/config"
)

func writeExportFixture(t *testing.T, toolScript string) (configPath, inputDir, manifestPath string) {
	t.Helper()
	base := t.TempDir()

	toolPath := filepath.Join(base, "tools", "chkextract")
	if err := os.MkdirAll(filepath.Dir(toolPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(toolPath, []byte(toolScript), 0o755); err != nil {
		t.Fatal(err)
	}

	inputDir = filepath.Join(base, "inputs")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "alpha.chk"), []byte("chunk"), 0o644); err != nil {
		t.Fatal(err)
	}

	manifestPath = filepath.Join(base, "manifest.txt")
	configPath = filepath.Join(base, "chkexport.toml")
	body := `
[paths]
output_dir = "` + filepath.Join(base, "output") + `"
log_dir = "` + filepath.Join(base, "logs") + `"
ledger_path = "` + filepath.Join(base, "completed.txt") + `"
manifest_path = "` + manifestPath + `"

[tool]
path = "` + toolPath + `"
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, inputDir, manifestPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootNoArgsShowsHelp(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Fatalf("help run: %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected usage text, got:\n%s", out)
	}
}

func TestRootRejectsSecondPositional(t *testing.T) {
	_, err := execute(t, "one", "two")
	var usageErr *usageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRootRejectsUnknownFlag(t *testing.T) {
	_, err := execute(t, "--bogus")
	var usageErr *usageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestExportEndToEnd(t *testing.T) {
	t.Setenv(toolPathEnvVar, "")
	script := `#!/bin/sh
mkdir -p "$2"
printf 'asset' > "$2/$(basename "$1" .chk).dat"
exit 0
`
	configPath, inputDir, manifestPath := writeExportFixture(t, script)

	out, err := execute(t, "--config", configPath, inputDir)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}

	manifestBody, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(manifestBody), "alpha.dat") {
		t.Fatalf("manifest missing output:\n%s", manifestBody)
	}

	// A rerun skips the completed input.
	out, err = execute(t, "--config", configPath, inputDir)
	if err != nil {
		t.Fatalf("rerun: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Skipped") {
		t.Fatalf("summary missing skip row:\n%s", out)
	}
}

func TestExportToolFailureReturnsFailuresError(t *testing.T) {
	t.Setenv(toolPathEnvVar, "")
	configPath, inputDir, _ := writeExportFixture(t, "#!/bin/sh\nexit 3\n")

	_, err := execute(t, "--config", configPath, inputDir)
	var failures *failuresError
	if !errors.As(err, &failures) {
		t.Fatalf("expected failures error, got %v", err)
	}
	if failures.failed != 1 {
		t.Fatalf("failed count: got %d", failures.failed)
	}
}

func TestExportMissingInputPath(t *testing.T) {
	t.Setenv(toolPathEnvVar, "")
	configPath, _, _ := writeExportFixture(t, "#!/bin/sh\nexit 0\n")

	_, err := execute(t, "--config", configPath, filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing input path")
	}
	var failures *failuresError
	if errors.As(err, &failures) {
		t.Fatal("precondition error must not be a failures error")
	}
}

func TestApplyToolOverridePrecedence(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Tool.Path = filepath.Join(base, "from-config")

	t.Setenv(toolPathEnvVar, filepath.Join(base, "from-env"))
	if err := applyToolOverride(&cfg, filepath.Join(base, "from-flag")); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.Tool.Path) != "from-flag" {
		t.Fatalf("flag should win, got %q", cfg.Tool.Path)
	}

	cfg.Tool.Path = filepath.Join(base, "from-config")
	if err := applyToolOverride(&cfg, ""); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.Tool.Path) != "from-env" {
		t.Fatalf("env should win over config, got %q", cfg.Tool.Path)
	}

	t.Setenv(toolPathEnvVar, "")
	cfg.Tool.Path = filepath.Join(base, "from-config")
	if err := applyToolOverride(&cfg, ""); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.Tool.Path) != "from-config" {
		t.Fatalf("config default should remain, got %q", cfg.Tool.Path)
	}
}
