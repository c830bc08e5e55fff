package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for babytime, stored in
// ~/.babytime/config.yaml.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Watch   WatchConfig   `yaml:"watch"`

	// BaseDir is the data directory the file was loaded from. Not serialised.
	BaseDir string `yaml:"-"`
}

// StorageConfig selects where events and the baby profile live.
type StorageConfig struct {
	// Backend is "file" (JSON day files) or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the data directory for "file" or the database file for
	// "sqlite". Relative paths are resolved against the base directory.
	Path    string `yaml:"path"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `yaml:"level"`
}

// WatchConfig controls `babytime watch`.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultLogLevel      = "warn"
	DefaultWatchInterval = time.Minute

	// EnvHome overrides the base directory (~/.babytime).
	EnvHome = "BABYTIME_HOME"
	// EnvStorage overrides storage.backend.
	EnvStorage = "BABYTIME_STORAGE"
	// EnvLogLevel overrides log.level.
	EnvLogLevel = "BABYTIME_LOG_LEVEL"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig(base string) Config {
	return Config{
		Storage: StorageConfig{Backend: BackendFile, Path: ""},
		Log:     LogConfig{Level: DefaultLogLevel},
		Watch:   WatchConfig{Interval: DefaultWatchInterval},
		BaseDir: base,
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# babytime configuration – ~/.babytime/config.yaml
#
# All settings are optional; the defaults shown below work out of the box.
# Environment variables (or a .env file in the working directory) override
# these values: BABYTIME_HOME, BABYTIME_STORAGE, BABYTIME_LOG_LEVEL.

storage:
  # "file"   – one human-readable JSON file per day under the data directory
  # "sqlite" – a single SQLite database file
  backend: file
  # Data directory (file) or database file (sqlite). Empty uses the defaults:
  # ~/.babytime for file, ~/.babytime/babytime.db for sqlite.
  path: ""

log:
  # debug, info, warn or error. Diagnostics go to stderr.
  level: warn

watch:
  # How often "babytime watch" refreshes the status when nothing changes.
  interval: 1m
`

// BaseDir returns the root data directory (~/.babytime, or $BABYTIME_HOME).
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".babytime"), nil
}

// Load reads the config file, creating it with annotated defaults on first
// run, then applies environment overrides. A .env file in the working
// directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	base, err := BaseDir()
	if err != nil {
		return defaultConfig(""), err
	}
	return LoadFrom(base)
}

// LoadFrom reads <base>/config.yaml. It does not touch .env.
func LoadFrom(base string) (Config, error) {
	path := filepath.Join(base, "config.yaml")
	cfg := defaultConfig(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			slog.Warn("Could not create config file", "path", path, "error", writeErr)
		}
		return applyEnv(cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(base), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.BaseDir = base

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatchInterval
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return cfg, fmt.Errorf("unknown storage backend %q (want %q or %q)", cfg.Storage.Backend, BackendFile, BackendSQLite)
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// StoragePath resolves the configured storage path for the active backend.
func (c Config) StoragePath() string {
	p := c.Storage.Path
	if p == "" {
		if c.Storage.Backend == BackendSQLite {
			return filepath.Join(c.BaseDir, "babytime.db")
		}
		return c.BaseDir
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(c.BaseDir, p)
	}
	return p
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return l, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
