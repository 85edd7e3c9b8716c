package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"visionary/internal/core/comfort"
	"visionary/internal/core/model"
	"visionary/internal/storage"
)

// errUsageNotConfirmed is returned by comfort clear-usage without --yes.
var errUsageNotConfirmed = errors.New("refusing to clear comfort usage without --yes")

func newComfortCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comfort",
		Short: "Show or change the warm eye comfort filter",
		Long: `The eye comfort filter tints the session window with a warm color to cut blue light.
The desktop app applies these settings and switches the filter on its schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := storage.LoadSettings(e.configDir)
			if err != nil {
				return err
			}
			store, err := storage.OpenLogStore(e.journalPath(), e.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			logs, err := store.ComfortUsage(cmd.Context())
			if err != nil {
				return err
			}
			printComfort(cmd.OutOrStdout(), settings.Comfort, comfort.Summarize(logs, e.now()), e.now())
			return nil
		},
	}
	cmd.AddCommand(
		newComfortSwitchCommand(e, "on", true),
		newComfortSwitchCommand(e, "off", false),
		newComfortSetCommand(e),
		newComfortScheduleCommand(e),
		newComfortProfileCommand(e),
		newComfortClearUsageCommand(e),
	)
	return cmd
}

func printComfort(out io.Writer, settings model.ComfortSettings, usage comfort.UsageSummary, now time.Time) {
	state := "off"
	if settings.Enabled {
		state = "on"
	}
	fmt.Fprintf(out, "Filter:     %s (intensity %d%%, warmth %d/10)\n", state, settings.Opacity, settings.Warmth)

	schedule := settings.Schedule
	if schedule.Enabled {
		scheduled := "outside the window"
		if comfort.Scheduled(schedule, now) {
			scheduled = "inside the window"
		}
		fmt.Fprintf(out, "Schedule:   %s-%s on %s, now %s\n", schedule.StartTime, schedule.EndTime, formatDays(schedule.Days), scheduled)
	} else {
		fmt.Fprintln(out, "Schedule:   off")
	}

	fmt.Fprintf(out, "Usage:      %s h today, %s h this week\n", comfort.Hours(usage.TodayMinutes), comfort.Hours(usage.WeekMinutes))
	if len(settings.Profiles) == 0 {
		return
	}
	fmt.Fprintln(out, "Profiles:")
	for _, profile := range settings.Profiles {
		fmt.Fprintf(out, "  %-14s intensity %d%%, warmth %d\n", profile.Name, profile.Opacity, profile.Warmth)
	}
}

func formatDays(days []time.Weekday) string {
	if len(days) == len(model.AllWeekdays()) {
		return "every day"
	}
	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, model.WeekdayName(day))
	}
	return strings.Join(names, ",")
}

// updateComfort loads settings, applies mutate to the comfort section and saves the result.
func (e *env) updateComfort(mutate func(*model.ComfortSettings) error) (model.ComfortSettings, error) {
	settings, err := storage.LoadSettings(e.configDir)
	if err != nil {
		return model.ComfortSettings{}, err
	}
	if err := mutate(&settings.Comfort); err != nil {
		return model.ComfortSettings{}, err
	}
	if err := settings.Comfort.Validate(); err != nil {
		return model.ComfortSettings{}, err
	}
	if err := storage.SaveSettings(e.configDir, settings); err != nil {
		return model.ComfortSettings{}, err
	}
	return settings.Comfort, nil
}

func newComfortSwitchCommand(e *env, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Switch the filter %s", use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := e.updateComfort(func(settings *model.ComfortSettings) error {
				settings.Enabled = enabled
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Eye comfort filter %s.\n", use)
			return nil
		},
	}
}

func newComfortSetCommand(e *env) *cobra.Command {
	var opacity, warmth int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the tint intensity and warmth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("opacity") && !flags.Changed("warmth") {
				return errors.New("nothing to change: pass --opacity or --warmth")
			}
			settings, err := e.updateComfort(func(settings *model.ComfortSettings) error {
				if flags.Changed("opacity") {
					settings.Opacity = opacity
				}
				if flags.Changed("warmth") {
					settings.Warmth = warmth
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tint set to intensity %d%%, warmth %d/10.\n", settings.Opacity, settings.Warmth)
			return nil
		},
	}
	cmd.Flags().IntVar(&opacity, "opacity", 0, fmt.Sprintf("tint intensity in percent, 0-%d", model.MaxComfortOpacity))
	cmd.Flags().IntVar(&warmth, "warmth", 0, fmt.Sprintf("warmth level, %d-%d", model.MinComfortWarmth, model.MaxComfortWarmth))
	return cmd
}

func newComfortScheduleCommand(e *env) *cobra.Command {
	var (
		enable, disable bool
		start, end      string
		days            []string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Switch the filter on and off automatically",
		Example: `  visionary comfort schedule --enable --start 21:00 --end 07:00
  visionary comfort schedule --days mon,tue,wed,thu,fri`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return errors.New("--enable and --disable are mutually exclusive")
			}
			selected, err := parseDays(days)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			settings, err := e.updateComfort(func(settings *model.ComfortSettings) error {
				schedule := &settings.Schedule
				switch {
				case enable:
					schedule.Enabled = true
				case disable:
					schedule.Enabled = false
				}
				if flags.Changed("start") {
					schedule.StartTime = strings.TrimSpace(start)
				}
				if flags.Changed("end") {
					schedule.EndTime = strings.TrimSpace(end)
				}
				if flags.Changed("days") {
					schedule.Days = selected
				}
				if schedule.Enabled && len(schedule.Days) == 0 {
					return errors.New("an enabled schedule needs at least one day")
				}
				return nil
			})
			if err != nil {
				return err
			}
			schedule := settings.Schedule
			if !schedule.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Schedule off.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schedule on: %s-%s on %s.\n", schedule.StartTime, schedule.EndTime, formatDays(schedule.Days))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&enable, "enable", false, "turn the schedule on")
	flags.BoolVar(&disable, "disable", false, "turn the schedule off")
	flags.StringVar(&start, "start", "", "switch on at HH:MM")
	flags.StringVar(&end, "end", "", "switch off at HH:MM")
	flags.StringSliceVar(&days, "days", nil, "days the schedule runs, e.g. mon,tue or all")
	return cmd
}

// parseDays reads --days values in week order without duplicates.
func parseDays(values []string) ([]time.Weekday, error) {
	if len(values) == 1 && strings.EqualFold(strings.TrimSpace(values[0]), "all") {
		return model.AllWeekdays(), nil
	}
	chosen := make(map[time.Weekday]bool, len(values))
	for _, value := range values {
		day, err := model.ParseWeekday(value)
		if err != nil {
			return nil, err
		}
		chosen[day] = true
	}
	days := make([]time.Weekday, 0, len(chosen))
	for _, day := range model.AllWeekdays() {
		if chosen[day] {
			days = append(days, day)
		}
	}
	return days, nil
}

func newComfortProfileCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Save, apply or remove tint profiles",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save NAME",
			Short: "Save the current tint as a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var saved model.ComfortProfile
				_, err := e.updateComfort(func(settings *model.ComfortSettings) error {
					updated, profile, err := comfort.SaveProfile(*settings, args[0])
					if err != nil {
						return err
					}
					*settings, saved = updated, profile
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q (intensity %d%%, warmth %d).\n", saved.Name, saved.Opacity, saved.Warmth)
				return nil
			},
		},
		&cobra.Command{
			Use:   "apply NAME",
			Short: "Apply a profile and switch the filter on",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := e.updateComfort(func(settings *model.ComfortSettings) error {
					updated, err := comfort.ApplyProfile(*settings, args[0])
					*settings = updated
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Filter on at intensity %d%%, warmth %d/10.\n", settings.Opacity, settings.Warmth)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove NAME",
			Short: "Delete a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := e.updateComfort(func(settings *model.ComfortSettings) error {
					updated, err := comfort.DeleteProfile(*settings, args[0])
					*settings = updated
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newComfortClearUsageCommand(e *env) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "clear-usage",
		Short: "Delete the filter usage history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errUsageNotConfirmed
			}
			store, err := storage.OpenLogStore(e.journalPath(), e.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearComfortUsage(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Comfort usage cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return cmd
}
