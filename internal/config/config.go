package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

// StateDirName is the hidden directory inside the root that holds the index
// and archive. It is never used as a project directory.
const StateDirName = ".logvault"

// Config holds all logvault configuration.
type Config struct {
	RootPath string `toml:"root_path"`

	Classifier ClassifierConfig `toml:"classifier"`
	Archive    ArchiveConfig    `toml:"archive"`
	Watch      WatchConfig      `toml:"watch"`
	Log        LogConfig        `toml:"log"`
}

type ClassifierConfig struct {
	Provider       string   `toml:"provider"`
	Model          string   `toml:"model"`
	APIKeyEnv      string   `toml:"api_key_env"`
	BaseURL        string   `toml:"base_url"`
	ProjectID      string   `toml:"project_id"`
	Location       string   `toml:"location"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Models         []string `toml:"models"`
}

type ArchiveConfig struct {
	Enabled bool `toml:"enabled"`
}

type WatchConfig struct {
	SettleMillis int `toml:"settle_millis"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultModels is the model list offered when discovery is unavailable.
var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash-001",
	"gemini-1.5-pro",
	"gemini-pro",
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RootPath: "~/logvault",
		Classifier: ClassifierConfig{
			Provider:  "gemini",
			Model:     DefaultModels[0],
			APIKeyEnv: "GOOGLE_API_KEY",
			Location:  "us-central1",
			Models:    append([]string(nil), DefaultModels...),
		},
		Watch: WatchConfig{
			SettleMillis: 500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
// A .env file in the working directory is applied to the environment first.
func Load() (Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, goerr.Wrap(err, "parse config", goerr.V("path", p))
			}
			break
		}
	}

	cfg.RootPath = ExpandHome(cfg.RootPath)
	if len(cfg.Classifier.Models) == 0 {
		cfg.Classifier.Models = append([]string(nil), DefaultModels...)
	}

	return cfg, nil
}

// LoadDotEnv applies KEY=value pairs from path to the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "load dotenv", goerr.V("path", path))
	}
	return nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "logvault", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "logvault", "config.toml"))
	}

	return paths
}

// ExpandHome expands a leading ~ to the user home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// StateDir returns the .logvault state directory inside the root.
func (c Config) StateDir() string {
	return filepath.Join(c.RootPath, StateDirName)
}

// ArchiveDir returns the directory holding compressed originals.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.StateDir(), "archive")
}

// APIKey returns the credential named by api_key_env, trimmed.
func (c ClassifierConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

// Timeout returns the generation deadline. Zero means none.
func (c ClassifierConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Settle returns how long a watched file must stay unchanged before filing.
func (c WatchConfig) Settle() time.Duration {
	if c.SettleMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.SettleMillis) * time.Millisecond
}

// Path returns the config file Load reads, or the default location when
// none exists yet.
func Path() string {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(ConfigDir(), "config.toml")
}
