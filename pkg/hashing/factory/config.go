package factory

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadConfigFromFile loads primitive-factory configuration from a JSON file.
func LoadConfigFromFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfigToFile saves primitive-factory configuration to a JSON file.
func SaveConfigToFile(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ConfigPaths returns common configuration file search paths.
func ConfigPaths() []string {
	homeDir, _ := os.UserHomeDir()
	return []string{
		filepath.Join(homeDir, ".uhash", "config.json"),
		"/etc/uhash/config.json",
		"./uhash-config.json",
		"./config.json",
	}
}
