package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTool(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.LedgerPath == "" {
		return errors.New("paths.ledger_path must be set")
	}
	if c.Paths.ManifestPath == "" {
		return errors.New("paths.manifest_path must be set")
	}
	if c.Paths.LedgerPath == c.Paths.ManifestPath {
		return errors.New("paths.ledger_path and paths.manifest_path must differ")
	}
	return nil
}

func (c *Config) validateTool() error {
	if c.Tool.Path == "" {
		return errors.New("tool.path must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
