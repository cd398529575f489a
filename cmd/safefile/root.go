package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/safefile-io/safefile/fileio"
	"github.com/safefile-io/safefile/filelock"
	"github.com/safefile-io/safefile/result"
)

// newRootCmd builds the safefile command tree.
func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "safefile",
		Short: "Crash-safe file replacement and advisory locking",
		Long: `safefile updates files so that no reader ever observes a half-written
state: new content is staged in a sibling file and committed with an atomic
replacement, serialized across processes by an advisory lock.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
				fileio.SetLogger(l)
				filelock.SetLogger(l)
				result.SetLogger(l)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log lock contention, rename retries and strategy selection to stderr")

	cmd.AddCommand(newWriteCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	return cmd
}
