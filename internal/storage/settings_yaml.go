package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"visionary/internal/core/model"
)

const settingsFileName = "settings.yaml"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type yamlReminders struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalMinutes int    `yaml:"interval_minutes"`
	StartTime       string `yaml:"start_time"`
	EndTime         string `yaml:"end_time"`
	Message         string `yaml:"message"`
	SoundEnabled    *bool  `yaml:"sound_enabled"`
}

type yamlProfile struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Opacity int    `yaml:"opacity"`
	Warmth  int    `yaml:"warmth"`
}

type yamlSchedule struct {
	Enabled   bool     `yaml:"enabled"`
	StartTime string   `yaml:"start_time"`
	EndTime   string   `yaml:"end_time"`
	Days      []string `yaml:"days"`
}

type yamlComfort struct {
	Enabled  bool          `yaml:"enabled"`
	Opacity  *int          `yaml:"opacity"`
	Warmth   *int          `yaml:"warmth"`
	Schedule *yamlSchedule `yaml:"schedule"`
	Profiles []yamlProfile `yaml:"profiles"`
}

type yamlSettings struct {
	SoundEnabled         *bool         `yaml:"sound_enabled"`
	VoiceGuidanceEnabled *bool         `yaml:"voice_guidance_enabled"`
	PreferredColor       string        `yaml:"preferred_color"`
	UsePreferredColor    bool          `yaml:"use_preferred_color"`
	AnimationSpeed       string        `yaml:"animation_speed"`
	DotSize              string        `yaml:"dot_size"`
	Reminders            yamlReminders `yaml:"reminders"`
	Comfort              *yamlComfort  `yaml:"comfort"`
	LaunchAtLogin        bool          `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from configDir.
// If the config file does not exist, default settings are returned.
func LoadSettings(configDir string) (model.UserSettings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(configDir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to configDir.
func SaveSettings(configDir string, settings model.UserSettings) error {
	soundEnabled := settings.SoundEnabled
	voiceEnabled := settings.VoiceGuidanceEnabled
	reminderSound := settings.Reminders.SoundEnabled
	fileData := yamlSettings{
		SoundEnabled:         &soundEnabled,
		VoiceGuidanceEnabled: &voiceEnabled,
		PreferredColor:       settings.PreferredColor,
		UsePreferredColor:    settings.UsePreferredColor,
		AnimationSpeed:       string(settings.AnimationSpeed),
		DotSize:              string(settings.DotSize),
		Reminders: yamlReminders{
			Enabled:         settings.Reminders.Enabled,
			IntervalMinutes: settings.Reminders.IntervalMinutes,
			StartTime:       settings.Reminders.StartTime,
			EndTime:         settings.Reminders.EndTime,
			Message:         settings.Reminders.Message,
			SoundEnabled:    &reminderSound,
		},
		Comfort:       comfortToYaml(settings.Comfort),
		LaunchAtLogin: settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	return writeFile(configDir, settingsFileName, serialized)
}

func applyYamlSettings(settings *model.UserSettings, fileData yamlSettings) {
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.VoiceGuidanceEnabled != nil {
		settings.VoiceGuidanceEnabled = *fileData.VoiceGuidanceEnabled
	}
	if hexColorPattern.MatchString(fileData.PreferredColor) {
		settings.PreferredColor = fileData.PreferredColor
	}
	settings.UsePreferredColor = fileData.UsePreferredColor

	switch speed := model.AnimationSpeed(fileData.AnimationSpeed); speed {
	case model.SpeedSlow, model.SpeedNormal, model.SpeedFast:
		settings.AnimationSpeed = speed
	}
	switch size := model.DotSize(fileData.DotSize); size {
	case model.DotSmall, model.DotMedium, model.DotLarge:
		settings.DotSize = size
	}

	reminders := fileData.Reminders
	settings.Reminders.Enabled = reminders.Enabled
	if reminders.IntervalMinutes > 0 && reminders.IntervalMinutes <= 24*60 {
		settings.Reminders.IntervalMinutes = reminders.IntervalMinutes
	}
	if _, err := model.ParseClock(reminders.StartTime); err == nil {
		settings.Reminders.StartTime = reminders.StartTime
	}
	if _, err := model.ParseClock(reminders.EndTime); err == nil {
		settings.Reminders.EndTime = reminders.EndTime
	}
	if reminders.Message != "" {
		settings.Reminders.Message = reminders.Message
	}
	if reminders.SoundEnabled != nil {
		settings.Reminders.SoundEnabled = *reminders.SoundEnabled
	}

	if fileData.Comfort != nil {
		applyYamlComfort(&settings.Comfort, *fileData.Comfort)
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}

func comfortToYaml(comfort model.ComfortSettings) *yamlComfort {
	opacity, warmth := comfort.Opacity, comfort.Warmth
	days := make([]string, 0, len(comfort.Schedule.Days))
	for _, day := range comfort.Schedule.Days {
		days = append(days, model.WeekdayName(day))
	}
	profiles := make([]yamlProfile, 0, len(comfort.Profiles))
	for _, profile := range comfort.Profiles {
		profiles = append(profiles, yamlProfile(profile))
	}
	return &yamlComfort{
		Enabled: comfort.Enabled,
		Opacity: &opacity,
		Warmth:  &warmth,
		Schedule: &yamlSchedule{
			Enabled:   comfort.Schedule.Enabled,
			StartTime: comfort.Schedule.StartTime,
			EndTime:   comfort.Schedule.EndTime,
			Days:      days,
		},
		Profiles: profiles,
	}
}

// applyYamlComfort keeps defaults for absent or out-of-range values.
func applyYamlComfort(comfort *model.ComfortSettings, fileData yamlComfort) {
	comfort.Enabled = fileData.Enabled
	if fileData.Opacity != nil && *fileData.Opacity >= 0 && *fileData.Opacity <= model.MaxComfortOpacity {
		comfort.Opacity = *fileData.Opacity
	}
	if fileData.Warmth != nil && *fileData.Warmth >= model.MinComfortWarmth && *fileData.Warmth <= model.MaxComfortWarmth {
		comfort.Warmth = *fileData.Warmth
	}

	if schedule := fileData.Schedule; schedule != nil {
		comfort.Schedule.Enabled = schedule.Enabled
		if _, err := model.ParseClock(schedule.StartTime); err == nil {
			comfort.Schedule.StartTime = schedule.StartTime
		}
		if _, err := model.ParseClock(schedule.EndTime); err == nil {
			comfort.Schedule.EndTime = schedule.EndTime
		}
		if schedule.Days != nil {
			days := make([]time.Weekday, 0, len(schedule.Days))
			for _, name := range schedule.Days {
				day, err := model.ParseWeekday(name)
				if err != nil {
					continue
				}
				if !containsDay(days, day) {
					days = append(days, day)
				}
			}
			comfort.Schedule.Days = days
		}
	}

	if fileData.Profiles != nil {
		profiles := make([]model.ComfortProfile, 0, len(fileData.Profiles))
		for _, profile := range fileData.Profiles {
			if profile.ID == "" || profile.Name == "" || model.ValidateTint(profile.Opacity, profile.Warmth) != nil {
				continue
			}
			profiles = append(profiles, model.ComfortProfile(profile))
		}
		comfort.Profiles = profiles
	}
}

func containsDay(days []time.Weekday, day time.Weekday) bool {
	for _, existing := range days {
		if existing == day {
			return true
		}
	}
	return false
}

func writeFile(configDir, name string, data []byte) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	target := filepath.Join(configDir, name)
	temp, err := os.CreateTemp(configDir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
