package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Mode selectors passed to every invocation. These are fixed for this
// deployment's target content; the tool itself decides what they mean.
const (
	gameID       = "broodwar"
	mapOperation = "export"
	mapType      = "melee"
)

// LaunchFailureExitCode marks invocations where the tool never started.
// Real exit statuses are never negative.
const LaunchFailureExitCode = -1

// Result captures one synchronous run of the extraction tool.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the invocation counts as completed for ledger
// purposes.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Invoker runs the extraction tool against one input file. The orchestrator
// only depends on this interface so tests can substitute a stub.
type Invoker interface {
	Extract(ctx context.Context, sourcePath string) Result
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, dir string) (exitCode int, stdout, stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client invokes the extraction executable as an opaque child process.
type Client struct {
	binary    string
	outputDir string
	exec      Executor
}

// New constructs a client for the given tool binary and output directory.
func New(binary, outputDir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("extraction tool binary required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, errors.New("output directory required")
	}
	client := &Client{
		binary:    binary,
		outputDir: outputDir,
		exec:      commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract runs the tool once. It never returns an error: a non-zero exit is
// reported through ExitCode, and a launch failure (missing or unrunnable
// binary) becomes the sentinel exit code with the error detail appended to
// the captured stderr text. The caller treats both identically: log and
// move on.
func (c *Client) Extract(ctx context.Context, sourcePath string) Result {
	args := []string{
		sourcePath,
		c.outputDir,
		"-g", gameID,
		"-op", mapOperation,
		"-type", mapType,
	}

	start := time.Now()
	code, stdout, stderr, err := c.exec.Run(ctx, c.binary, args, filepath.Dir(c.binary))
	result := Result{
		ExitCode: code,
		Stdout:   stdout,
		Stderr:   stderr,
		Duration: time.Since(start),
	}
	if err != nil {
		result.ExitCode = LaunchFailureExitCode
		detail := fmt.Sprintf("launch failure: %v", err)
		if result.Stderr != "" && !strings.HasSuffix(result.Stderr, "\n") {
			result.Stderr += "\n"
		}
		result.Stderr += detail
	}
	return result
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, dir string) (int, string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return 0, stdout.String(), stderr.String(), err
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stdout.String(), stderr.String(), nil
		}
		return 0, stdout.String(), stderr.String(), err
	}
	return 0, stdout.String(), stderr.String(), nil
}
