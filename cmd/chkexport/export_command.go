package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chkexport/internal/config"
	"chkexport/internal/extract"
	"chkexport/internal/history"
	"chkexport/internal/logging"
	"chkexport/internal/runner"
)

func runExport(cmd *cobra.Command, configPath, toolFlag, inputPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyToolOverride(cfg, toolFlag); err != nil {
		return err
	}

	// Preconditions are verified before any output directory is created.
	if _, err := os.Stat(cfg.Tool.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("extraction tool not found at %s", cfg.Tool.Path)
		}
		return fmt.Errorf("stat extraction tool: %w", err)
	}
	expandedInput, err := config.ExpandPath(inputPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expandedInput); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("input path not found: %s", expandedInput)
		}
		return fmt.Errorf("stat input path: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	invoker, err := extract.New(cfg.Tool.Path, cfg.Paths.OutputDir)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	run, err := runner.New(cfg, invoker, store, logger)
	if err != nil {
		return err
	}

	summary, err := run.Run(cmd.Context(), expandedInput)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	if summary.Failed > 0 {
		return &failuresError{failed: summary.Failed}
	}
	return nil
}

// applyToolOverride resolves the tool path: the --tool flag wins, then the
// CHKEXPORT_TOOL environment variable, then the configured default.
func applyToolOverride(cfg *config.Config, toolFlag string) error {
	candidate := strings.TrimSpace(toolFlag)
	if candidate == "" {
		candidate = strings.TrimSpace(os.Getenv(toolPathEnvVar))
	}
	if candidate == "" {
		return nil
	}
	expanded, err := config.ExpandPath(candidate)
	if err != nil {
		return err
	}
	cfg.Tool.Path = expanded
	return nil
}

func printSummary(cmd *cobra.Command, summary *runner.Summary) {
	rows := [][]string{
		{"Discovered", strconv.Itoa(summary.Discovered)},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Changed outputs", strconv.Itoa(len(summary.Changed))},
		{"Manifest", summary.ManifestPath},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Result", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
