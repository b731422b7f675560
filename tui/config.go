package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// Config holds the settings that survive across runs, most importantly the
// solo/team mode toggle.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Mode    string `yaml:"mode"`
}

func defaultConfig() Config {
	return Config{BaseURL: defaultBaseURL, Mode: "solo"}
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error resolving config dir: %w", err)
	}
	return filepath.Join(dir, "crew", "config.yaml"), nil
}

// LoadConfig reads the persisted settings, falling back to defaults when
// the file does not exist yet.
func LoadConfig() (Config, error) {
	config := defaultConfig()

	path, err := configPath()
	if err != nil {
		return config, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("error reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return defaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Mode != "team" {
		config.Mode = "solo"
	}
	return config, nil
}

// Save persists the settings, creating the config directory when needed.
func (c Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}
