// Package config holds the on-disk configuration for the LC-3 assembler
// and virtual machine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the toolchain configuration.
type Config struct {
	// Execution settings for the VM.
	Execution struct {
		MaxCycles      uint64 `toml:"max_cycles"`
		DefaultOrigin  uint16 `toml:"default_origin"`
		LEASetsFlags   bool   `toml:"lea_sets_flags"`
		EnableTrace    bool   `toml:"enable_trace"`
		StartInRawMode bool   `toml:"start_in_raw_mode"`
	} `toml:"execution"`

	// Assembler settings.
	Assembler struct {
		StrictRanges    bool `toml:"strict_ranges"`
		WarnUnusedLabel bool `toml:"warn_unused_label"`
	} `toml:"assembler"`

	// Display settings for diagnostics. Reserved: no package reads
	// NumberFormat; diagnostics print numbers in fixed formats (immediates
	// and offsets in decimal).
	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`

	// Trace settings. OutputFile is consulted by cmd/lc3vm when -trace is
	// not passed explicitly. Filter is reserved: no package reads it, and
	// the cmd/lc3vm trace callback writes the same fields (cycle, PC, COND,
	// instruction type) for every instruction.
	Trace struct {
		OutputFile string `toml:"output_file"`
		Filter     string `toml:"filter_registers"` // comma-separated: "R0,R1,PC"
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.DefaultOrigin = 0x3000
	cfg.Execution.LEASetsFlags = true
	cfg.Execution.EnableTrace = false
	cfg.Execution.StartInRawMode = true

	cfg.Assembler.StrictRanges = true
	cfg.Assembler.WarnUnusedLabel = false

	cfg.Display.NumberFormat = "hex"

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.Filter = ""

	return cfg
}

// roamingDir resolves the Windows roaming-profile directory (%APPDATA%,
// falling back to %USERPROFILE%\AppData\Roaming), the one piece shared by
// both the config and the log path on that platform.
func roamingDir() string {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
}

// lc3Dir builds the per-OS directory for one of this toolchain's on-disk
// footprints. Config and logs differ only in their Unix XDG base
// (~/.config vs ~/.local/share) and their trailing path segment, so both
// GetConfigPath and GetLogPath fold through here rather than each
// re-deriving the platform switch. fallback is returned verbatim when the
// home directory can't be resolved or the directory can't be created.
func lc3Dir(unixBase string, segments []string, fallback string) string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = filepath.Join(append([]string{roamingDir(), "lc3"}, segments...)...)

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fallback
		}
		dir = filepath.Join(append([]string{homeDir, unixBase, "lc3"}, segments...)...)

	default:
		return fallback
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	dir := lc3Dir(".config", nil, "")
	if dir == "" {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	dir := lc3Dir(".local/share", []string{"logs"}, "")
	if dir == "" {
		return "logs"
	}
	return dir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
