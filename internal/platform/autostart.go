package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrEmptyAppName indicates an autostart call without an application name.
	ErrEmptyAppName = errors.New("app name is empty")
	// ErrEmptyExecPath indicates an autostart call without an executable.
	ErrEmptyExecPath = errors.New("exec path is empty")
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	// AutostartEnabled reports whether a login item is registered for appName.
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SyncAutostart registers or removes the running executable as a login item so that it
// matches the launch-at-login preference.
func SyncAutostart(service Service, appName string, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

// ReconcileAutostart brings the login item in line with the preference at startup.
// An enabled item is rewritten so it follows a moved executable.
func ReconcileAutostart(service Service, appName string, enabled bool) error {
	registered, err := service.AutostartEnabled(appName)
	if err != nil {
		return fmt.Errorf("check autostart: %w", err)
	}
	if !enabled && !registered {
		return nil
	}
	return SyncAutostart(service, appName, enabled)
}

// loginItem is what each platform registers to launch the app at login.
type loginItem struct {
	name     string
	slug     string
	execPath string
}

func newLoginItem(appName, execPath string) (loginItem, error) {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return loginItem{}, err
	}
	execPath = strings.TrimSpace(execPath)
	if execPath == "" {
		return loginItem{}, ErrEmptyExecPath
	}
	return loginItem{name: strings.TrimSpace(appName), slug: slug, execPath: execPath}, nil
}

func loginItemSlug(appName string) (string, error) {
	if strings.TrimSpace(appName) == "" {
		return "", ErrEmptyAppName
	}
	return autostartSlug(appName), nil
}

func autostartSlug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "visionary"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
