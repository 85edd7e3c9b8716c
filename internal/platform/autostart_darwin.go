//go:build darwin

package platform

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const launchAgentPrefix = "app.visionary."

// EnableAutostart installs a per-user LaunchAgent that starts the tray app in the Aqua session.
func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := newLoginItem(appName, execPath)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	plistPath, err := launchAgentPath(item.slug)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(plistPath, []byte(buildLaunchAgentPlist(item)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	plistPath, err := launchAgentPath(slug)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	slug, err := loginItemSlug(appName)
	if err != nil {
		return false, err
	}
	plistPath, err := launchAgentPath(slug)
	if err != nil {
		return false, err
	}
	return fileExists(plistPath)
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(slug string) string {
	return launchAgentPrefix + slug
}

func launchAgentPath(slug string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(slug)+".plist"), nil
}

func buildLaunchAgentPlist(item loginItem) string {
	var plist strings.Builder
	plist.WriteString(xml.Header)
	plist.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	plist.WriteString("<plist version=\"1.0\">\n<dict>\n")
	plistString(&plist, "Label", launchAgentLabel(item.slug))
	plist.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n\t\t<string>")
	plist.WriteString(xmlText(item.execPath))
	plist.WriteString("</string>\n\t</array>\n")
	plist.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n")
	plistString(&plist, "ProcessType", "Interactive")
	plistString(&plist, "LimitLoadToSessionType", "Aqua")
	plist.WriteString("</dict>\n</plist>\n")
	return plist.String()
}

func plistString(plist *strings.Builder, key, value string) {
	fmt.Fprintf(plist, "\t<key>%s</key>\n\t<string>%s</string>\n", key, xmlText(value))
}

func xmlText(value string) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(value))
	return escaped.String()
}
