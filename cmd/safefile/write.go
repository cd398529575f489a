package main

import (
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/safefile-io/safefile/fileio"
)

// newWriteCmd builds the `safefile write` command: replace a file's content
// with stdin, atomically, under an exclusive advisory lock.
func newWriteCmd() *cobra.Command {
	var (
		timeout time.Duration
		create  bool
		mode    uint32
	)

	cmd := &cobra.Command{
		Use:   "write <path>",
		Short: "Atomically replace a file's content with stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			flags := fileio.AccessRead | fileio.AccessWrite
			if create {
				flags |= fileio.OpenCreate
			}
			fd, err := fileio.Open(path, flags, fs.FileMode(mode))
			if err != nil {
				return err
			}
			defer fd.Close()

			if err := fd.Lock(timeout); err != nil {
				return err
			}

			return fileio.Update(fd, func(temp *fileio.Descriptor) error {
				if _, err := temp.Write(data); err != nil {
					return err
				}
				return temp.Sync()
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second,
		"bounded wait for the exclusive lock")
	cmd.Flags().BoolVar(&create, "create", false,
		"create the file when it does not exist")
	cmd.Flags().Uint32Var(&mode, "mode", 0o644,
		"permission bits used when creating the file")
	return cmd
}
