package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "VISIONARY_CONFIG_DIR"

// ResolveConfigDir returns override, then $VISIONARY_CONFIG_DIR, then the per-user
// config directory for appName.
func ResolveConfigDir(override, appName string) (string, error) {
	if override != "" {
		return override, nil
	}
	if fromEnv := os.Getenv(ConfigDirEnv); fromEnv != "" {
		return fromEnv, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}
