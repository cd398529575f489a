//go:build linux

package fileio

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/safefile-io/safefile/result"
)

// exchangeSupported probes once whether the kernel offers the
// directory-scoped exchange primitive (RENAME_EXCHANGE). The probe swaps two
// empty scratch files; any failure selects the rename strategy instead.
var exchangeSupported = sync.OnceValue(func() bool {
	dir, err := os.MkdirTemp("", "safefile-probe-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, nil, 0o600); err != nil {
		return false
	}
	if err := os.WriteFile(b, nil, 0o600); err != nil {
		return false
	}
	return unix.Renameat2(unix.AT_FDCWD, a, unix.AT_FDCWD, b, unix.RENAME_EXCHANGE) == nil
})

// exchangeStrategy swaps the sibling and the original in a single atomic
// directory operation. Unlike the rename path, neither file node is ever
// absent from its path, so the swap is safe while both files are
// concurrently open.
type exchangeStrategy struct{}

func (s *exchangeStrategy) name() string { return "exchange" }

func (s *exchangeStrategy) replace(temp, orig *Descriptor) error {
	tempPath := temp.path

	// The staged handle is consumed here no matter what happens next: the
	// exchange operates on names, not handles, and a failure must not leave
	// the caller holding a live staged descriptor.
	if err := temp.Close(); err != nil {
		logger().Warn("staged file close failed",
			slog.String("path", tempPath), slog.Any("error", err))
	}

	origFull, err := resolveFullPath(orig.path)
	if err != nil {
		return result.Wrapf(err, result.Translate(err), "resolve %q", orig.path)
	}
	tempFull, err := resolveFullPath(tempPath)
	if err != nil {
		return result.Wrapf(err, result.Translate(err), "resolve %q", tempPath)
	}

	dir := filepath.Dir(origFull)
	if filepath.Dir(tempFull) != dir {
		// Precondition, not a runtime condition: the sibling factory sites
		// staging files next to their originals.
		return result.Newf(result.Generic,
			"exchange requires both files in one directory: %q vs %q",
			tempFull, origFull)
	}

	// The exchange is issued on the directory rather than on either file,
	// because both files may be open.
	dirf, err := os.Open(dir)
	if err != nil {
		return result.Wrapf(err, result.Generic, "open directory %q", dir)
	}
	defer dirf.Close()

	dfd := int(dirf.Fd())
	err = unix.Renameat2(dfd, filepath.Base(tempFull), dfd, filepath.Base(origFull),
		unix.RENAME_EXCHANGE)
	if err != nil {
		// A busy exchange is retryable for the caller's purposes; it is not
		// retried here.
		return result.Wrapf(err, result.Generic,
			"exchange %q and %q", tempFull, origFull)
	}

	// The sibling name now carries the displaced content. Drop that node so
	// exactly one node survives.
	if err := os.Remove(tempFull); err != nil {
		logger().Warn("displaced sibling not removed after exchange",
			slog.String("path", tempFull), slog.Any("error", err))
	}

	if err := orig.reopen(); err != nil {
		logger().Error("original not reopened after successful exchange; on-disk state is ambiguous",
			slog.String("path", orig.path), slog.Any("error", err))
		return result.Wrapf(errors.Join(ErrUnrecoverable, err),
			result.Generic, "reopen %q after exchange", orig.path)
	}
	return nil
}
