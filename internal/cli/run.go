package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"visionary/internal/core/catalog"
	"visionary/internal/core/cue"
	"visionary/internal/core/journal"
	"visionary/internal/core/session"
	"visionary/internal/platform"
	"visionary/internal/storage"
)

func newRunCommand(e *env) *cobra.Command {
	var mute bool
	cmd := &cobra.Command{
		Use:   "run [routine-id]",
		Short: "Run a routine in the terminal",
		Long: `Runs a routine in the terminal. Type p and Enter to pause or resume,
s to skip the current phase, q to quit. Completed sessions are logged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routineID := catalog.DailyRelief().ID
			if len(args) == 1 {
				routineID = args[0]
			}
			return e.runRoutine(cmd, routineID, mute)
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "disable tones and voice guidance")
	return cmd
}

func (e *env) runRoutine(cmd *cobra.Command, routineID string, mute bool) error {
	settings, err := storage.LoadSettings(e.configDir)
	if err != nil {
		e.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	}
	custom, err := storage.NewRoutineStore(e.configDir).List()
	if err != nil {
		return err
	}
	routine, err := catalog.Routine(routineID, custom)
	if err != nil {
		return err
	}

	j, closeJournal, err := e.openJournal()
	if err != nil {
		return err
	}
	defer closeJournal()

	var cues cue.Emitter = cue.Nop{}
	if !mute {
		player := platform.NewCuePlayer(e.logger)
		defer player.Close()
		cues = cue.NewGated(cue.Logged(player, e.logger), settings)
	}

	run, err := session.New(routine, session.Options{
		Clock:      e.clock,
		Cues:       cues,
		Settings:   settings,
		Logger:     e.logger,
		Now:        e.now,
		OnComplete: journal.CompletionRecorder(j, routine, e.now, e.logger),
	})
	if err != nil {
		return err
	}
	events := run.Subscribe(64)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d exercises, about %d min. [p]ause, [s]kip, [q]uit\n",
		routine.Name, len(routine.Exercises), routine.Minutes())
	printPhase(out, run.Snapshot())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	commands := readLines(ctx, cmd.InOrStdin())

	group.Go(func() error {
		defer cancel()
		printEvents(out, events)
		return nil
	})
	group.Go(func() error {
		return handleCommands(ctx, run, commands)
	})
	if err := group.Wait(); err != nil {
		return err
	}

	if run.Snapshot().Phase == session.PhaseCompleted {
		fmt.Fprintf(out, "Logged %d minutes.\n", routine.Minutes())
	}
	return nil
}

// readLines forwards input lines until EOF or until ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(strings.ToLower(scanner.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func handleCommands(ctx context.Context, run *session.Session, commands <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			run.Exit()
			return nil
		case command, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			switch command {
			case "p", "pause", "resume":
				run.TogglePlay()
			case "s", "skip":
				if err := run.Skip(); err != nil {
					return nil
				}
			case "q", "quit", "exit":
				run.Exit()
				return nil
			}
		}
	}
}

func printEvents(out io.Writer, events <-chan session.Event) {
	for event := range events {
		snapshot := event.Snapshot
		switch event.Type {
		case session.EventPhaseChange:
			printPhase(out, snapshot)
		case session.EventPlayback:
			if snapshot.Playing {
				fmt.Fprintln(out, "Resumed.")
			} else {
				fmt.Fprintln(out, "Paused.")
			}
		case session.EventTick:
			if snapshot.TimeLeft > 0 && (snapshot.TimeLeft%10 == 0 || snapshot.TimeLeft <= 3) {
				fmt.Fprintf(out, "  %s  %3.0f%%\n", clockText(snapshot.TimeLeft), snapshot.Progress*100)
			}
		case session.EventCompleted:
			fmt.Fprintln(out, "Session complete. Great job!")
		case session.EventExited:
			fmt.Fprintln(out, "Session ended.")
		}
	}
}

func printPhase(out io.Writer, snapshot session.Snapshot) {
	if snapshot.Finished() {
		return
	}
	if snapshot.IsBreak {
		next := ""
		if snapshot.Next != nil {
			next = ", up next: " + snapshot.Next.Name
		}
		fmt.Fprintf(out, "Break %s%s\n", clockText(snapshot.TimeLeft), next)
		return
	}
	exercise := snapshot.Exercise
	fmt.Fprintf(out, "[%d/%d] %s %s\n", snapshot.Index+1, snapshot.Total, exercise.Name, clockText(snapshot.TimeLeft))
	if instruction := exercise.Instruction(); instruction != "" {
		fmt.Fprintf(out, "  %s\n", instruction)
	}
	for index, step := range exercise.Steps {
		fmt.Fprintf(out, "  %d. %s\n", index+1, step)
	}
}

func clockText(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
