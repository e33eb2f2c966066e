package ui

// Config contains TUI-specific configuration.
type Config struct {
	// DataDir overrides the per-user data directory.
	DataDir string `env:"ECTTS_DATA_HOME"`
	HomeDir string `env:"HOME"`

	EnableMouse bool

	// SetID selects the word set to open at startup. Empty opens the first
	// set in the index.
	SetID string

	// Silent forces the no-audio engine even when espeak is installed.
	Silent bool `env:"ECTTS_SILENT"`
}
