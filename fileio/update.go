package fileio

import (
	"log/slog"
	"os"

	"github.com/safefile-io/safefile/result"
)

// Update replaces d's content atomically: a sibling is created next to the
// original, fill stages the new content into it, and the sibling is
// committed over the original. The caller is expected to hold whatever
// advisory lock it needs before calling.
//
// When fill or the commit fails, the sibling is unwound so no staging file
// survives the failure. On success d remains valid and points at the new
// content.
func Update(d *Descriptor, fill func(temp *Descriptor) error) error {
	temp, err := CreateSibling(d)
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if err := fill(temp); err != nil {
		if cleanupErr := temp.CloseAndUnlink(); cleanupErr != nil {
			logger().Warn("staging sibling not unwound",
				slog.String("path", tempPath), slog.Any("error", cleanupErr))
		}
		return result.Wrapf(err, result.CodeOf(err), "stage new content for %q", d.Name())
	}

	if err := Replace(temp, d); err != nil {
		// Replace consumed the temp handle; only the node can be left
		// behind, and only when the commit never happened.
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
