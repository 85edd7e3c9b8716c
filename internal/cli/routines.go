package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"visionary/internal/core/catalog"
	"visionary/internal/storage"
)

func newRoutinesCommand(e *env) *cobra.Command {
	routinesCmd := &cobra.Command{
		Use:   "routines",
		Short: "List, add and remove routines",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := storage.NewRoutineStore(e.configDir).List()
			if err != nil {
				return err
			}
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tEXERCISES\tMINUTES\tCUSTOM")
			for _, routine := range append(catalog.Routines(), custom...) {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%t\n",
					routine.ID, routine.Name, len(routine.Exercises), routine.Minutes(), routine.Custom)
			}
			return writer.Flush()
		},
	}

	exercisesCmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the exercise library usable in custom routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tSECONDS\tKIND")
			for _, exercise := range catalog.DefaultExercises() {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", exercise.ID, exercise.Name, exercise.DurationSeconds, exercise.Kind)
			}
			return writer.Flush()
		},
	}

	var name string
	addCmd := &cobra.Command{
		Use:   "add exercise-id[:seconds]...",
		Short: "Create a custom routine from library exercises",
		Example: `  visionary routines add --name "Desk reset" horizontal-scan:45 blinking palming:60`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]catalog.TemplateRef, 0, len(args))
			for _, arg := range args {
				ref, err := catalog.ParseTemplateRef(arg)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}
			routine, err := catalog.Build(name, refs)
			if err != nil {
				return err
			}
			if err := storage.NewRoutineStore(e.configDir).Add(routine); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s), %d min\n", routine.Name, routine.ID, routine.Minutes())
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "routine name")
	_ = addCmd.MarkFlagRequired("name")

	removeCmd := &cobra.Command{
		Use:   "remove routine-id",
		Short: "Delete a custom routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.NewRoutineStore(e.configDir).Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	routinesCmd.AddCommand(listCmd, exercisesCmd, addCmd, removeCmd)
	return routinesCmd
}
