package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/model"
)

func routines() []model.Routine {
	return []model.Routine{
		{ID: "daily-relief", Name: "Daily Relief", Exercises: []model.Exercise{{DurationSeconds: 300}}},
		{ID: "quick-break", Name: "Quick Break", Exercises: []model.Exercise{{DurationSeconds: 90}}},
	}
}

func TestMenuStartsRoutines(t *testing.T) {
	var started []string
	manager := New(nil, routines(), Callbacks{
		OnStartRoutine: func(id string) { started = append(started, id) },
	})

	menu := manager.Menu()
	require.NotNil(t, menu.Items[1].ChildMenu)
	items := menu.Items[1].ChildMenu.Items
	require.Len(t, items, 2)
	assert.Equal(t, "Quick Break (2 min)", items[1].Label)

	items[1].Action()
	items[0].Action()
	assert.Equal(t, []string{"quick-break", "daily-relief"}, started)
}

func TestStatusAndPause(t *testing.T) {
	var pausedFor time.Duration
	manager := New(nil, nil, Callbacks{OnPauseFor: func(d time.Duration) { pausedFor = d }})

	manager.SetStatus("next in 12:00")
	assert.Equal(t, "Reminders: next in 12:00", manager.statusItem.Label)

	manager.SetPaused(true)
	assert.Equal(t, "Reminders: next in 12:00 (paused)", manager.statusItem.Label)
	assert.Equal(t, "Resume reminders", manager.pauseItem.Label)

	menu := manager.Menu()
	menu.Items[9].ChildMenu.Items[1].Action()
	assert.Equal(t, time.Hour, pausedFor)
}

func TestMissingCallbacksAreIgnored(t *testing.T) {
	manager := New(nil, routines(), Callbacks{})
	for _, item := range manager.Menu().Items {
		if item.Action != nil {
			assert.NotPanics(t, item.Action)
		}
	}
}

func TestComfortItems(t *testing.T) {
	var toggled, opened int
	manager := New(nil, nil, Callbacks{
		OnToggleComfort: func() { toggled++ },
		OnComfort:       func() { opened++ },
	})

	menu := manager.Menu()
	assert.Equal(t, "Eye comfort filter", menu.Items[5].Label)
	assert.False(t, menu.Items[5].Checked)
	menu.Items[5].Action()
	menu.Items[6].Action()
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 1, opened)

	manager.SetComfort(true)
	assert.True(t, manager.Menu().Items[5].Checked)
}
