package config

import (
	"fmt"
	"strings"
)

// normalize trims and expands every path field so downstream components only
// ever see absolute paths.
func (c *Config) normalize() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.ledger_path", &c.Paths.LedgerPath},
		{"paths.manifest_path", &c.Paths.ManifestPath},
		{"tool.path", &c.Tool.Path},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.value = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", field.name, err)
		}
		*field.value = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
