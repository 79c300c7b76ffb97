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

// Series maps a catalog entry name to its playlist source.
type Series struct {
	Name        string `toml:"name"`
	PlaylistURL string `toml:"playlist_url"`
}

// Paths contains directory configuration.
type Paths struct {
	DownloadDir   string `toml:"download_dir"`
	TranscriptDir string `toml:"transcript_dir"`
	FallbackDir   string `toml:"fallback_dir"`
	LogDir        string `toml:"log_dir"`
}

// Ledger contains job-coordination settings.
type Ledger struct {
	Enabled           bool   `toml:"enabled"`
	Prefix            string `toml:"prefix"`
	StaleAfterSeconds int    `toml:"stale_after_seconds"`
	WorkerID          string `toml:"worker_id"`
}

// Fetch contains media download retry settings.
type Fetch struct {
	Attempts         int    `toml:"attempts"`
	BaseDelaySeconds int    `toml:"base_delay_seconds"`
	Format           string `toml:"format"`
}

// Store contains remote storage settings.
type Store struct {
	RequireRemote bool   `toml:"require_remote"`
	RemoteRoot    string `toml:"remote_root"`
}

// Workflow contains episode scheduling settings.
type Workflow struct {
	Workers             int  `toml:"workers"`
	Sequential          bool `toml:"sequential"`
	EpisodeDelaySeconds int  `toml:"episode_delay_seconds"`
}

// Sidecar contains transcript discovery settings.
type Sidecar struct {
	Languages []string `toml:"languages"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration for the worker process.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Ledger   Ledger   `toml:"ledger"`
	Fetch    Fetch    `toml:"fetch"`
	Store    Store    `toml:"store"`
	Workflow Workflow `toml:"workflow"`
	Sidecar  Sidecar  `toml:"sidecar"`
	Logging  Logging  `toml:"logging"`
	Series   []Series `toml:"series"`
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "reelvault", "config.toml"), nil
}

// Load reads the config at path, applies defaults, normalizes paths, and
// validates the result. A missing file yields the defaults unmodified.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// Defaults apply when no file is present.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureDirectories creates all configured directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DownloadDir, c.Paths.TranscriptDir, c.Paths.FallbackDir, c.Paths.LogDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
