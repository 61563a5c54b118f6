// Package config resolves runtime settings from the TOML config file,
// environment variables, and built-in defaults, in that order of precedence
// (command-line flags override all of it in cmd).
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Vertex contains the inference backend connection settings.
type Vertex struct {
	ProjectID string `toml:"project_id"`
	Region    string `toml:"region"`
	Model     string `toml:"model"`
}

// Paths contains file and directory locations.
type Paths struct {
	OutputDir   string `toml:"output_dir"`
	VendorsFile string `toml:"vendors_file"`
	LogFile     string `toml:"log_file"`
	RunLogFile  string `toml:"run_log_file"`
}

// Processing contains pipeline behavior settings.
type Processing struct {
	MaxConcurrent int  `toml:"max_concurrent"`
	MoveFiles     bool `toml:"move_files"`
}

// Config is the full runtime configuration.
type Config struct {
	Vertex     Vertex     `toml:"vertex"`
	Paths      Paths      `toml:"paths"`
	Processing Processing `toml:"processing"`
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Default returns the built-in configuration with environment fallbacks
// applied for the Vertex AI connection.
func Default() *Config {
	return &Config{
		Vertex: Vertex{
			ProjectID: GetEnv("PROJECT_ID", ""),
			Region:    GetEnv("VERTEX_AI_REGION", "us-central1"),
			Model:     GetEnv("VERTEX_AI_MODEL", "gemini-1.5-flash"),
		},
		Paths: Paths{
			OutputDir:   "processed_invoices",
			VendorsFile: "vendors.yaml",
			LogFile:     "processing_log.txt",
			RunLogFile:  "",
		},
		Processing: Processing{
			MaxConcurrent: 5,
			MoveFiles:     false,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "invoiceflow", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error: defaults apply. File values are
// decoded over the defaults, so absent keys keep their default.
func Load(path string) (*Config, string, error) {
	resolved := path
	if resolved == "" {
		var err error
		resolved, err = DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, resolved, nil
	}
	if err != nil {
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if cfg.Processing.MaxConcurrent <= 0 {
		cfg.Processing.MaxConcurrent = Default().Processing.MaxConcurrent
	}
	return cfg, resolved, nil
}

// WriteSample writes the annotated sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
