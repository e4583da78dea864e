package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultDirName  = ".waypoint"
	defaultFileName = "config.yaml"
	envConfigPath   = "WAYPOINT_CONFIG_PATH"
)

// ErrConfigNotFound is returned when the config file does not exist yet.
var ErrConfigNotFound = errors.New("config file not found")

// Config is the saved CLI state: where the API lives and the user's home
// coordinates once they have been granted.
type Config struct {
	APIBase  string   `yaml:"api_base"`
	Lat      *float64 `yaml:"lat,omitempty"`
	Lng      *float64 `yaml:"lng,omitempty"`
	RadiusKm float64  `yaml:"radius_km,omitempty"`
}

// ConfigStore loads and writes the yaml config file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store using env overrides or defaults.
func NewConfigStore() (*ConfigStore, error) {
	if cfg := os.Getenv(envConfigPath); cfg != "" {
		return &ConfigStore{path: cfg}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &ConfigStore{path: filepath.Join(home, defaultDirName, defaultFileName)}, nil
}

// Path returns current config path.
func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the configuration; a missing file yields ErrConfigNotFound.
func (s *ConfigStore) Load() (Config, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrConfigNotFound
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes a configuration payload, creating the directory when needed.
func (s *ConfigStore) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
