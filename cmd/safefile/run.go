package main

import (
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/safefile-io/safefile/filelock"
)

// newRunCmd builds the `safefile run` command: hold the advisory lock on a
// file while a child command executes, so cooperating processes serialize
// around it.
func newRunCmd() *cobra.Command {
	var (
		timeout time.Duration
		shared  bool
	)

	cmd := &cobra.Command{
		Use:   "run <path> -- <command> [args...]",
		Short: "Run a command while holding the advisory lock on a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			mode := filelock.Exclusive
			if shared {
				mode = filelock.Shared
			}

			manager := filelock.NewFlock()
			token, err := manager.Acquire(path, mode, timeout)
			if err != nil {
				return err
			}
			defer func() { _ = manager.Release(token) }()

			child := exec.Command(args[1], args[2:]...)
			child.Stdin = os.Stdin
			child.Stdout = cmd.OutOrStdout()
			child.Stderr = cmd.ErrOrStderr()
			return child.Run()
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second,
		"bounded wait for the lock")
	cmd.Flags().BoolVar(&shared, "shared", false,
		"take a shared lock instead of an exclusive one")
	return cmd
}
