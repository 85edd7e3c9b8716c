package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"visionary/internal/core/model"
	"visionary/internal/core/trends"
	"visionary/internal/storage"
)

// errNotConfirmed is returned by clear without --yes.
var errNotConfirmed = errors.New("refusing to clear the journal without --yes")

func newCheckInCommand(e *env) *cobra.Command {
	values := model.DefaultCheckIn(nil)
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record today's wellness check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeJournal, err := e.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			log, err := j.RecordCheckIn(cmd.Context(), values, e.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked in for %s: clarity %d, strain %d, %d exercises today\n",
				log.Date, log.VisionClarity, log.EyeStrain, log.ExercisesCompleted)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&values.VisionClarity, "clarity", values.VisionClarity, "vision clarity, 1-10")
	flags.IntVar(&values.EyeStrain, "strain", values.EyeStrain, "eye strain, 1-10")
	flags.IntVar(&values.Dryness, "dryness", values.Dryness, "dryness, 1-10")
	flags.IntVar(&values.SleepQuality, "sleep", values.SleepQuality, "sleep quality, 1-10")
	flags.BoolVar(&values.Headaches, "headaches", false, "had a headache today")
	flags.Float64Var(&values.ScreenTimeHours, "screen", values.ScreenTimeHours, "screen time in hours")
	flags.IntVar(&values.OutdoorTimeMinutes, "outdoor", values.OutdoorTimeMinutes, "outdoor time in minutes")
	flags.StringVar(&values.Notes, "notes", "", "free-form notes")
	return cmd
}

// statsOutput is the --json shape of stats.
type statsOutput struct {
	Days             int     `json:"days"`
	AvgStrain        float64 `json:"avgStrain"`
	AvgClarity       float64 `json:"avgClarity"`
	AvgSleep         float64 `json:"avgSleep"`
	AvgScreenTime    float64 `json:"avgScreenTime"`
	Improvement      int     `json:"improvement"`
	InsufficientData bool    `json:"insufficientData"`
	Insight          string  `json:"insight,omitempty"`
}

func newStatsCommand(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show trend analytics over the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeJournal, err := e.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			logs, err := j.History(cmd.Context())
			if err != nil {
				return err
			}
			summary, ok := trends.Summarize(logs)
			out := cmd.OutOrStdout()
			if asJSON {
				output := statsOutput{InsufficientData: true}
				if ok {
					output = statsOutput{
						Days:             summary.Days,
						AvgStrain:        summary.AvgStrain,
						AvgClarity:       summary.AvgClarity,
						AvgSleep:         summary.AvgSleep,
						AvgScreenTime:    summary.AvgScreenTime,
						Improvement:      summary.Improvement,
						InsufficientData: summary.InsufficientData,
						Insight:          summary.Insight(),
					}
				}
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(output)
			}

			if !ok {
				fmt.Fprintln(out, "Not enough data yet. Complete a session or check in first.")
				return nil
			}
			improvement := fmt.Sprintf("%d%%", summary.Improvement)
			if summary.InsufficientData {
				improvement = fmt.Sprintf("not enough data (need %d days)", trends.MinImprovementRecords)
			}
			fmt.Fprintf(out, "Days logged:      %d\n", summary.Days)
			fmt.Fprintf(out, "Avg eye strain:   %.1f (%s)\n", summary.AvgStrain, trends.RateStrain(summary.AvgStrain))
			fmt.Fprintf(out, "Avg clarity:      %.1f (%s)\n", summary.AvgClarity, trends.RateClarity(summary.AvgClarity))
			fmt.Fprintf(out, "Avg sleep:        %.1f\n", summary.AvgSleep)
			fmt.Fprintf(out, "Avg screen time:  %.1f h\n", summary.AvgScreenTime)
			fmt.Fprintf(out, "Improvement:      %s\n", improvement)
			fmt.Fprintln(out)
			fmt.Fprintln(out, summary.Insight())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newExportCommand(e *env) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeJournal, err := e.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			logs, err := j.History(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "-" {
				return storage.ExportJSON(cmd.OutOrStdout(), logs)
			}
			if outPath == "" {
				outPath = storage.ExportFileName(e.now())
			}
			if err := storage.ExportFile(outPath, logs); err != nil {
				return err
			}
			absolute, err := filepath.Abs(outPath)
			if err != nil {
				absolute = outPath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d days to %s\n", len(logs), absolute)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, - for stdout (default visionary_health_data_<date>.json)")
	return cmd
}

func newClearCommand(e *env) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errNotConfirmed
			}
			j, closeJournal, err := e.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			if err := j.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return cmd
}
