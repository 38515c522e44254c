package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SLM_CONFIG_PATH: config file location (default: ~/.config/slm.toml)
//   - SLM_HOME: base directory for label maker data (default: ~/.local/share/slm)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking SLM_CONFIG_PATH env var first,
// then falling back to the default ~/.config/slm.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("SLM_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "slm.toml"), nil
}

// getBaseDir returns the base directory for label maker data, checking SLM_HOME
// env var first, then falling back to the XDG default ~/.local/share/slm.
func getBaseDir() (string, error) {
	if path := os.Getenv("SLM_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "slm"), nil
}
