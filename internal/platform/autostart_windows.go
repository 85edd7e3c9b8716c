//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// EnableAutostart adds a value named after the app slug under the per-user Run key.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := newLoginItem(appName, execPath)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := runReg(registryAddArgs(item)...); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	registered, err := service.AutostartEnabled(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if !registered {
		return nil
	}
	slug, _ := loginItemSlug(appName)
	if err := runReg("delete", registryRunKey, "/v", slug, "/f"); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return false, err
	}
	err = runReg("query", registryRunKey, "/v", slug)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// reg query exits non-zero when the value is missing.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func registryAddArgs(item loginItem) []string {
	return []string{"add", registryRunKey, "/v", item.slug, "/t", "REG_SZ", "/d", quoteWindowsPath(item.execPath), "/f"}
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return `"` + strings.Trim(execPath, `"`) + `"`
}
