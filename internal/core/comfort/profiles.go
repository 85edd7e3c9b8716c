package comfort

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"visionary/internal/core/model"
)

var (
	// ErrUnknownProfile indicates no profile matches the given id or name.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrEmptyProfileName indicates a profile without a name.
	ErrEmptyProfileName = errors.New("profile name is required")
)

// SaveProfile stores the current opacity and warmth as a new named profile.
func SaveProfile(settings model.ComfortSettings, name string) (model.ComfortSettings, model.ComfortProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return settings, model.ComfortProfile{}, ErrEmptyProfileName
	}
	if err := model.ValidateTint(settings.Opacity, settings.Warmth); err != nil {
		return settings, model.ComfortProfile{}, fmt.Errorf("save profile %q: %w", name, err)
	}
	profile := model.ComfortProfile{
		ID:      uuid.NewString(),
		Name:    name,
		Opacity: settings.Opacity,
		Warmth:  settings.Warmth,
	}
	settings.Profiles = append(append([]model.ComfortProfile(nil), settings.Profiles...), profile)
	return settings, profile, nil
}

// ApplyProfile copies a profile's tint into settings and switches the filter on.
func ApplyProfile(settings model.ComfortSettings, ref string) (model.ComfortSettings, error) {
	index := findProfile(settings.Profiles, ref)
	if index < 0 {
		return settings, fmt.Errorf("apply profile %q: %w", ref, ErrUnknownProfile)
	}
	profile := settings.Profiles[index]
	settings.Opacity = profile.Opacity
	settings.Warmth = profile.Warmth
	settings.Enabled = true
	return settings, nil
}

// DeleteProfile removes the profile matching ref.
func DeleteProfile(settings model.ComfortSettings, ref string) (model.ComfortSettings, error) {
	index := findProfile(settings.Profiles, ref)
	if index < 0 {
		return settings, fmt.Errorf("delete profile %q: %w", ref, ErrUnknownProfile)
	}
	profiles := make([]model.ComfortProfile, 0, len(settings.Profiles)-1)
	profiles = append(profiles, settings.Profiles[:index]...)
	settings.Profiles = append(profiles, settings.Profiles[index+1:]...)
	return settings, nil
}

// findProfile matches by id first, then by case-insensitive name.
func findProfile(profiles []model.ComfortProfile, ref string) int {
	for index, profile := range profiles {
		if profile.ID == ref {
			return index
		}
	}
	for index, profile := range profiles {
		if strings.EqualFold(profile.Name, strings.TrimSpace(ref)) {
			return index
		}
	}
	return -1
}
