package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/journal"
	"visionary/internal/core/model"
	"visionary/internal/core/trends"
)

func seed(t *testing.T, store *journal.MemoryStore, strains ...int) {
	t.Helper()
	for day, strain := range strains {
		date := fmt.Sprintf("2026-03-%02d", day+1)
		_, err := store.Upsert(context.Background(), date, func(log *model.DailyLog) {
			log.EyeStrain = strain
			log.VisionClarity = 8
			log.SleepQuality = 7
			log.ScreenTimeHours = 6
		})
		require.NoError(t, err)
	}
}

func TestStats(t *testing.T) {
	summary := trends.Summary{Days: 6, AvgStrain: 8.2, AvgClarity: 3, AvgScreenTime: 6, Improvement: 38}
	stats := Stats(summary)
	require.Len(t, stats, 6)
	assert.Equal(t, "8.2", stats[0].Value)
	assert.Equal(t, trends.RatingPoor, stats[0].Rating)
	assert.Equal(t, trends.RatingPoor, stats[1].Rating)
	assert.Equal(t, "6.0 h", stats[3].Value)
	assert.Equal(t, "38%", stats[4].Value)
	assert.Equal(t, trends.RatingGood, stats[4].Rating)

	summary.InsufficientData = true
	summary.Improvement = 0
	assert.Equal(t, "not enough data", Stats(summary)[4].Value)
}

func TestReloadEmptyHistory(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	window := New(app, journal.New(journal.NewMemoryStore(), nil), nil)
	require.NoError(t, window.Reload())
	assert.True(t, window.empty.Visible())
	assert.True(t, window.exportBtn.Disabled())
}

func TestReloadAndClear(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	store := journal.NewMemoryStore()
	seed(t, store, 9, 8, 7, 6, 5, 4, 3, 2)
	window := New(app, journal.New(store, nil), nil)
	window.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, window.Reload())
	assert.False(t, window.empty.Visible())
	assert.Len(t, window.stats.Objects, 6)
	assert.Len(t, window.chart.Objects, trends.RecentWindow)
	assert.Contains(t, window.insight.Text, "trending downwards")

	require.NoError(t, window.clear())
	assert.True(t, window.empty.Visible())
	logs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestBarsLayout(t *testing.T) {
	first, second := canvas.NewRectangle(nil), canvas.NewRectangle(nil)
	layout := &barsLayout{values: []float32{5, 10}}
	layout.Layout([]fyne.CanvasObject{first, second}, fyne.NewSize(200, 100))

	assert.Equal(t, float32(50), first.Size().Height)
	assert.Equal(t, float32(100), second.Size().Height)
	assert.Equal(t, float32(0), second.Position().Y)
	assert.Equal(t, float32(80), first.Size().Width)
}
