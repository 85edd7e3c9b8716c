//go:build linux || darwin

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/reminder"
)

func TestIdleWithoutToolsIsUnsupported(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	provider := NewIdleProvider()
	require.IsType(t, unsupportedIdleProvider{}, provider)
	_, err := provider.IdleDuration()
	assert.ErrorIs(t, err, reminder.ErrIdleUnsupported)
}
