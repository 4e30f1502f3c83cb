package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFileNameSanitizes(t *testing.T) {
	cases := map[string]string{
		"/data/maps/weird name?*.chk": "weird_name__.log",
		"/data/maps/alpha.chk":        "alpha.log",
		"/data/maps/a b.c d.chk":      "a_b.c_d.log",
		"/data/maps/UPPER-ok_1.chk":   "UPPER-ok_1.log",
	}
	for input, want := range cases {
		if got := LogFileName(input); got != want {
			t.Errorf("LogFileName(%q): got %q, want %q", input, got, want)
		}
	}
}

func TestWriteLogFormat(t *testing.T) {
	dir := t.TempDir()
	result := Result{
		ExitCode: 0,
		Stdout:   "exported 4 assets",
		Duration: 12345 * time.Microsecond,
	}

	path, err := WriteLog(dir, "/data/maps/alpha.chk", result)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "alpha.log" {
		t.Fatalf("log path: %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{
		"Duration: 12.35 ms\n",
		"Exit code: 0\n",
		"=== STDOUT ===\nexported 4 assets\n",
		"=== STDERR ===\n(empty)\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("log missing %q:\n%s", want, body)
		}
	}
}

func TestWriteLogOverwritesPriorLog(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteLog(dir, "alpha.chk", Result{ExitCode: 1, Stderr: "boom"}); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteLog(dir, "alpha.chk", Result{ExitCode: 0, Stdout: "fine"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "alpha.log"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "boom") {
		t.Fatalf("old log content survived:\n%s", data)
	}
	if !strings.Contains(string(data), "Exit code: 0") {
		t.Fatalf("new log content missing:\n%s", data)
	}
}
