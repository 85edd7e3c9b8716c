package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/journal"
	"visionary/internal/core/model"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Visionary")
	settings := model.DefaultSettings()
	settings.SoundEnabled = false
	settings.VoiceGuidanceEnabled = false
	settings.PreferredColor = "#22c55e"
	settings.UsePreferredColor = true
	settings.AnimationSpeed = model.SpeedFast
	settings.DotSize = model.DotLarge
	settings.Reminders.Enabled = true
	settings.Reminders.IntervalMinutes = 45
	settings.Reminders.StartTime = "22:00"
	settings.Reminders.EndTime = "06:00"
	settings.Reminders.SoundEnabled = false
	settings.LaunchAtLogin = true

	require.NoError(t, SaveSettings(dir, settings))
	loaded, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`
preferred_color: green
animation_speed: ludicrous
dot_size: huge
reminders:
  enabled: true
  interval_minutes: -5
  start_time: "25:99"
  end_time: "18:30"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), raw, 0o644))

	settings, err := LoadSettings(dir)
	require.NoError(t, err)

	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.PreferredColor, settings.PreferredColor)
	assert.Equal(t, defaults.AnimationSpeed, settings.AnimationSpeed)
	assert.Equal(t, defaults.DotSize, settings.DotSize)
	assert.Equal(t, defaults.Reminders.IntervalMinutes, settings.Reminders.IntervalMinutes)
	assert.Equal(t, defaults.Reminders.StartTime, settings.Reminders.StartTime)
	assert.Equal(t, "18:30", settings.Reminders.EndTime)
	assert.True(t, settings.Reminders.Enabled)
	assert.True(t, settings.SoundEnabled, "absent switches keep their defaults")
}

func TestLoadSettingsRejectsMalformedYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte("reminders: ["), 0o644))

	settings, err := LoadSettings(dir)
	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "/tmp/from-env")

	dir, err := ResolveConfigDir("/tmp/override", "Visionary")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", dir)

	dir, err = ResolveConfigDir("", "Visionary")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", dir)
}

func customRoutine(id string) model.Routine {
	return model.Routine{
		ID:   id,
		Name: "Mine " + id,
		Exercises: []model.Exercise{
			{ID: "palming-0", Name: "Palming", DurationSeconds: 60, Kind: model.KindPalming},
		},
	}
}

func TestRoutineStore(t *testing.T) {
	store := NewRoutineStore(t.TempDir())

	routines, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, routines)

	require.NoError(t, store.Add(customRoutine("one")))
	require.NoError(t, store.Add(customRoutine("two")))

	routines, err = store.List()
	require.NoError(t, err)
	require.Len(t, routines, 2)
	assert.Equal(t, "one", routines[0].ID)
	assert.True(t, routines[0].Custom)
	assert.Equal(t, 60, routines[0].Exercises[0].DurationSeconds)

	require.NoError(t, store.Remove("one"))
	assert.ErrorIs(t, store.Remove("one"), ErrRoutineNotFound)

	routines, err = store.List()
	require.NoError(t, err)
	require.Len(t, routines, 1)
	assert.Equal(t, "two", routines[0].ID)
}

func TestRoutineStoreRejectsInvalidRoutine(t *testing.T) {
	store := NewRoutineStore(t.TempDir())
	err := store.Add(model.Routine{ID: "empty", Name: "Empty"})
	assert.ErrorIs(t, err, model.ErrEmptyRoutine)
}

func openTestStore(t *testing.T) *LogStore {
	t.Helper()
	store, err := OpenLogStore(filepath.Join(t.TempDir(), JournalFileName), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLogStoreUpsertAccumulates(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	j := journal.New(store, nil)
	routine := model.Routine{
		ID:        "three",
		Name:      "Three",
		Exercises: []model.Exercise{{ID: "a", DurationSeconds: 180}},
	}
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	_, err := j.RecordCompletion(ctx, routine, now)
	require.NoError(t, err)
	_, err = j.RecordCompletion(ctx, routine, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = j.RecordCheckIn(ctx, model.CheckIn{
		VisionClarity: 7, EyeStrain: 4, Dryness: 3, SleepQuality: 8,
		Headaches: true, ScreenTimeHours: 5.5, OutdoorTimeMinutes: 20, Notes: "ok",
	}, now.Add(2*time.Hour))
	require.NoError(t, err)

	log, err := store.Get(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, log.ExercisesCompleted)
	assert.Equal(t, 6, log.MinutesCompleted)
	assert.Equal(t, 4, log.EyeStrain)
	assert.True(t, log.Headaches)
	assert.Equal(t, 5.5, log.ScreenTimeHours)
	assert.True(t, now.Equal(log.Timestamp))
}

func TestLogStoreListGetClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, date := range []string{"2026-03-03", "2026-03-01", "2026-03-02"} {
		_, err := store.Upsert(ctx, date, func(log *model.DailyLog) {
			log.ExercisesCompleted = 1
		})
		require.NoError(t, err)
	}

	logs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "2026-03-01", logs[0].Date)
	assert.Equal(t, "2026-03-03", logs[2].Date)

	_, err = store.Get(ctx, "2026-04-01")
	assert.ErrorIs(t, err, journal.ErrNotFound)

	require.NoError(t, store.Clear(ctx))
	logs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), JournalFileName)

	store, err := OpenLogStore(path, nil)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "2026-03-01", func(log *model.DailyLog) { log.MinutesCompleted = 9 })
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenLogStore(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	log, err := reopened.Get(ctx, "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 9, log.MinutesCompleted)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	logs := []model.DailyLog{{Date: "2026-03-01", EyeStrain: 4, ScreenTimeHours: 6}}

	require.NoError(t, ExportJSON(&buf, logs))
	assert.Contains(t, buf.String(), "\n  {")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "2026-03-01", decoded[0]["date"])
	assert.Equal(t, 4.0, decoded[0]["eyeStrain"])

	buf.Reset()
	require.NoError(t, ExportJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)
	assert.Equal(t, "visionary_health_data_2026-10-19.json", ExportFileName(now))
}

func TestComfortSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	settings := model.DefaultSettings()
	settings.Comfort.Enabled = true
	settings.Comfort.Opacity = 55
	settings.Comfort.Warmth = 8
	settings.Comfort.Schedule = model.ComfortSchedule{
		Enabled:   true,
		StartTime: "22:30",
		EndTime:   "06:15",
		Days:      []time.Weekday{time.Friday, time.Saturday},
	}
	settings.Comfort.Profiles = []model.ComfortProfile{{ID: "mine", Name: "Mine", Opacity: 10, Warmth: 2}}

	require.NoError(t, SaveSettings(dir, settings))
	raw, err := os.ReadFile(filepath.Join(dir, settingsFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "- fri")

	loaded, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, settings.Comfort, loaded.Comfort)
}

func TestLoadComfortIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`
comfort:
  enabled: true
  opacity: 95
  warmth: 0
  schedule:
    enabled: true
    start_time: "late"
    end_time: "05:00"
    days: [mon, funday, mon, sunday]
  profiles:
    - {id: ok, name: Fine, opacity: 20, warmth: 3}
    - {id: bad, name: Broken, opacity: 20, warmth: 11}
    - {name: Anonymous, opacity: 20, warmth: 3}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), raw, 0o644))

	settings, err := LoadSettings(dir)
	require.NoError(t, err)

	comfort := settings.Comfort
	defaults := model.DefaultComfortSettings()
	assert.True(t, comfort.Enabled)
	assert.Equal(t, defaults.Opacity, comfort.Opacity)
	assert.Equal(t, defaults.Warmth, comfort.Warmth)
	assert.True(t, comfort.Schedule.Enabled)
	assert.Equal(t, defaults.Schedule.StartTime, comfort.Schedule.StartTime)
	assert.Equal(t, "05:00", comfort.Schedule.EndTime)
	assert.Equal(t, []time.Weekday{time.Monday, time.Sunday}, comfort.Schedule.Days)
	require.Len(t, comfort.Profiles, 1)
	assert.Equal(t, "Fine", comfort.Profiles[0].Name)
}

func TestLogStoreComfortUsage(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	log, err := store.AddComfortMinutes(ctx, "2026-10-19", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, log.MinutesActive)
	log, err = store.AddComfortMinutes(ctx, "2026-10-19", 4)
	require.NoError(t, err)
	assert.Equal(t, 7, log.MinutesActive)
	_, err = store.AddComfortMinutes(ctx, "2026-10-18", 1)
	require.NoError(t, err)

	logs, err := store.ComfortUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ComfortLog{
		{Date: "2026-10-18", MinutesActive: 1},
		{Date: "2026-10-19", MinutesActive: 7},
	}, logs)

	history, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "filter usage stays out of the wellness journal")

	require.NoError(t, store.ClearComfortUsage(ctx))
	logs, err = store.ComfortUsage(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
