//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopEntry(t *testing.T) {
	item, err := newLoginItem(" Eye Break ", "/opt/my apps/visionary")
	require.NoError(t, err)
	assert.Equal(t, "eye-break.desktop", desktopFileName(item.slug))

	entry := buildDesktopEntry(item)
	assert.Contains(t, entry, "Name=Eye Break\n")
	assert.Contains(t, entry, `Exec="/opt/my apps/visionary"`)
	assert.Contains(t, entry, "X-GNOME-Autostart-enabled=true\n")
}

func TestDesktopExecArg(t *testing.T) {
	assert.Equal(t, "/usr/bin/visionary", desktopExecArg("/usr/bin/visionary"))
	assert.Equal(t, `"/home/me/\$bin/vision\\ary"`, desktopExecArg(`/home/me/$bin/vision\ary`))
	assert.Equal(t, `"/tmp/say \"hi\""`, desktopExecArg(`/tmp/say "hi"`))
	assert.Equal(t, "/opt/100%%/visionary", desktopExecArg("/opt/100%/visionary"))
}

func TestSyncAutostart(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	service := NewService()
	entryPath := filepath.Join(configHome, "autostart", "visionary.desktop")

	require.NoError(t, SyncAutostart(service, "Visionary", true))
	content, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Exec=")
	enabled, err := service.AutostartEnabled("Visionary")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, SyncAutostart(service, "Visionary", false))
	assert.NoFileExists(t, entryPath)
	require.NoError(t, SyncAutostart(service, "Visionary", false))
	enabled, err = service.AutostartEnabled("Visionary")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestAutostartRejectsEmptyNames(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	service := NewService()

	assert.ErrorIs(t, service.EnableAutostart(" ", "/usr/bin/visionary"), ErrEmptyAppName)
	assert.ErrorIs(t, service.EnableAutostart("Visionary", ""), ErrEmptyExecPath)
	assert.ErrorIs(t, service.DisableAutostart(""), ErrEmptyAppName)
	_, err := service.AutostartEnabled("")
	assert.ErrorIs(t, err, ErrEmptyAppName)
}
