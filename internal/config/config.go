package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	defaultConfigName   = "config.json"
	defaultDatabaseFile = "netlab.db"
	defaultPort         = 5001
)

type Config struct {
	DatabasePath string `json:"database_path"`
	Port         int    `json:"port"`
}

// Dir returns the netlab config directory under the user config dir,
// creating it if needed.
func Dir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	appName := "netlab"
	if IsDev() {
		appName = "netlab-dev"
	}
	dir := filepath.Join(userConfigDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func IsDev() bool {
	return os.Getenv("NETLAB_ENV") == "dev"
}

func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath, configDir)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(configDir, defaultDatabaseFile)
	}

	return &cfg, nil
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := Config{
		DatabasePath: filepath.Join(configDir, defaultDatabaseFile),
		Port:         defaultPort,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, err
	}

	return &cfg, nil
}
