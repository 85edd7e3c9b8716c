//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// desktopExecReserved lists characters that force quoting in a desktop entry Exec key.
const desktopExecReserved = " \t\n\"'\\><~|&;$*?#()`"

// EnableAutostart writes an XDG autostart entry into $XDG_CONFIG_HOME/autostart.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := newLoginItem(appName, execPath)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	entryPath, err := service.desktopEntryPath(item.slug)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(entryPath, []byte(buildDesktopEntry(item)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	entryPath, err := service.desktopEntryPath(slug)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(entryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return false, err
	}
	entryPath, err := service.desktopEntryPath(slug)
	if err != nil {
		return false, err
	}
	return fileExists(entryPath)
}

func (service *platformService) desktopEntryPath(slug string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(slug)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(slug string) string {
	return slug + ".desktop"
}

func buildDesktopEntry(item loginItem) string {
	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	entry.WriteString("Type=Application\n")
	fmt.Fprintf(&entry, "Name=%s\n", item.name)
	entry.WriteString("Comment=Guided eye exercises and rest reminders\n")
	fmt.Fprintf(&entry, "Exec=%s\n", desktopExecArg(item.execPath))
	entry.WriteString("Categories=Utility;Accessibility;\n")
	entry.WriteString("X-GNOME-Autostart-enabled=true\n")
	entry.WriteString("X-GNOME-Autostart-Delay=10\n")
	entry.WriteString("Terminal=false\n")
	return entry.String()
}

// desktopExecArg quotes one Exec argument following the desktop entry rules.
func desktopExecArg(value string) string {
	value = strings.ReplaceAll(value, "%", "%%")
	if !strings.ContainsAny(value, desktopExecReserved) {
		return value
	}
	escaper := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + escaper.Replace(value) + `"`
}
