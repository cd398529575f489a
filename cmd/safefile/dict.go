package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/safefile-io/safefile/dict"
	"github.com/safefile-io/safefile/result"
)

// newGetCmd builds `safefile get`: print one value from a dictionary file.
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <key>",
		Short: "Print one value from a dictionary file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dict.Load(args[0])
			if err != nil {
				return err
			}
			value, ok := d.Get(args[1])
			if !ok {
				return result.Newf(result.NotFound,
					"no key %q in %q", args[1], args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newSetCmd builds `safefile set`: update one key in a dictionary file and
// save it atomically under the advisory lock.
func newSetCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "set <file> <key> <value>",
		Short: "Set one key in a dictionary file, atomically",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dict.Load(args[0])
			if err != nil {
				return err
			}
			d.Set(args[1], args[2])
			return d.Save(timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second,
		"bounded wait for the exclusive lock")
	return cmd
}
