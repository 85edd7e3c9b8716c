// Package cli implements the visionary command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"visionary/internal/core/clock"
	"visionary/internal/core/journal"
	"visionary/internal/desktop"
	"visionary/internal/logging"
	"visionary/internal/platform"
	"visionary/internal/storage"
)

// env carries global flags and collaborators shared by every command.
type env struct {
	configDir string
	verbose   bool
	logger    *zap.Logger
	now       func() time.Time
	// clock drives terminal sessions; nil selects a one-second ticker.
	clock clock.Clock
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&env{now: time.Now})
}

func newRootCommand(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "visionary",
		Short: "Visionary - guided eye exercises, reminders and a wellness journal",
		Long: `Visionary runs guided eye-exercise routines, reminds you to rest your eyes,
and keeps a daily journal of sessions and check-ins with trend analytics.

Run without arguments to start the tray application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return desktop.Run(desktop.Options{ConfigDir: e.configDir, Logger: e.logger})
		},
	}
	rootCmd.PersistentFlags().StringVar(&e.configDir, "config-dir", "", "configuration directory (default: per-user config dir, or $"+storage.ConfigDirEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCommand(e),
		newRoutinesCommand(e),
		newCheckInCommand(e),
		newStatsCommand(e),
		newExportCommand(e),
		newClearCommand(e),
		newComfortCommand(e),
	)
	return rootCmd
}

func (e *env) setup() error {
	if e.logger == nil {
		logger, err := logging.New(logging.Options{Verbose: e.verbose, Console: true})
		if err != nil {
			return err
		}
		e.logger = logger
	}

	configDir, err := storage.ResolveConfigDir(e.configDir, desktop.AppName)
	if err != nil {
		base, baseErr := platform.NewService().GetConfigDir()
		if baseErr != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = filepath.Join(base, desktop.AppName)
	}
	e.configDir = configDir
	e.logger.Debug("config resolved", zap.String("config_dir", configDir))
	return nil
}

// openJournal opens the SQLite journal in the config directory. The caller closes it.
func (e *env) openJournal() (*journal.Journal, func() error, error) {
	store, err := storage.OpenLogStore(e.journalPath(), e.logger)
	if err != nil {
		return nil, nil, err
	}
	return journal.New(store, e.logger), store.Close, nil
}

func (e *env) journalPath() string {
	return filepath.Join(e.configDir, storage.JournalFileName)
}
