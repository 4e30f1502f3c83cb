package config

const (
	defaultOutputDir    = "export/output"
	defaultLogDir       = "export/logs"
	defaultLedgerPath   = "export/completed.txt"
	defaultManifestPath = "export/manifest.txt"
	defaultToolPath     = "tools/chkextract"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults. Paths are
// relative to the working directory until normalize absolutizes them.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			LedgerPath:   defaultLedgerPath,
			ManifestPath: defaultManifestPath,
		},
		Tool: Tool{
			Path: defaultToolPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
