package fileio

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/safefile-io/safefile/result"
)

// ErrUnrecoverable marks the one failure a caller cannot safely continue
// past: the original file could not be reopened after its on-disk
// replacement, leaving the handle's view of the file ambiguous. Detect it
// with errors.Is.
var ErrUnrecoverable = errors.New("file handle state is unrecoverable")

const (
	// renameAttempts bounds the retry against a transiently busy rename
	// target. There is no guarantee of success beyond the budget.
	renameAttempts = 10

	renameRetryDelay = 100 * time.Millisecond
)

// replaceStrategy is the tagged variant behind Replace. Selection happens
// once, via the capability probe, never per call site.
type replaceStrategy interface {
	name() string
	replace(temp, orig *Descriptor) error
}

var defaultStrategy = sync.OnceValue(func() replaceStrategy {
	if exchangeSupported() {
		return &exchangeStrategy{}
	}
	return newRenameStrategy()
})

// Replace commits the content staged in temp over orig's path.
//
// On success orig is valid, reopened with the flags it was opened with
// (holding a lock again when it held one before), exactly one file node
// exists at orig's path, and no node remains at temp's path. The temp
// handle is consumed by the call and must not be used afterward, success or
// not.
//
// Replace assumes the caller already holds whatever advisory lock it needs;
// serialization between processes racing on the same path is the lock
// manager's job, not this one's.
func Replace(temp, orig *Descriptor) error {
	if !temp.Valid() || !orig.Valid() {
		return result.New(result.Generic, "replace requires two valid descriptors")
	}

	s := defaultStrategy()
	logger().Debug("replacing file content",
		slog.String("strategy", s.name()),
		slog.String("path", orig.path),
		slog.String("staged", temp.path))
	return s.replace(temp, orig)
}

// renameStrategy is the general replacement path: close the original's
// platform handle without dropping its lock token, rename the sibling over
// the original, reopen.
type renameStrategy struct {
	rename   func(oldpath, newpath string) error
	attempts int
	delay    time.Duration
}

func newRenameStrategy() *renameStrategy {
	return &renameStrategy{
		rename:   os.Rename,
		attempts: renameAttempts,
		delay:    renameRetryDelay,
	}
}

func (s *renameStrategy) name() string { return "rename" }

func (s *renameStrategy) replace(temp, orig *Descriptor) error {
	tempPath := temp.path

	// The staged handle is consumed here no matter what happens next.
	if err := temp.Close(); err != nil {
		logger().Warn("staged file close failed",
			slog.String("path", tempPath), slog.Any("error", err))
	}

	// Close the original's platform handle only. The advisory lock token is
	// deliberately kept across the rename: it rides on its own descriptor
	// inside the lock manager, so no other cooperating process can acquire
	// the path while it is mid-replacement.
	f := orig.file
	orig.file = nil
	if err := f.Close(); err != nil {
		logger().Warn("original close failed before rename",
			slog.String("path", orig.path), slog.Any("error", err))
	}

	renameErr := s.renameRetry(tempPath, orig.path)

	// Reopen even when the rename failed, so the caller is left holding a
	// valid (if unmodified) handle rather than a dangling one.
	reopenErr := orig.reopen()

	switch {
	case renameErr == nil && reopenErr == nil:
		return nil
	case renameErr != nil && reopenErr == nil:
		return renameErr
	case renameErr == nil:
		logger().Error("original not reopened after successful replace; on-disk state is ambiguous",
			slog.String("path", orig.path), slog.Any("error", reopenErr))
		return result.Wrapf(errors.Join(ErrUnrecoverable, reopenErr),
			result.Generic, "reopen %q after replace", orig.path)
	default:
		logger().Error("rename failed and original not reopened",
			slog.String("path", orig.path),
			slog.Any("renameError", renameErr),
			slog.Any("reopenError", reopenErr))
		return result.Wrapf(errors.Join(ErrUnrecoverable, renameErr, reopenErr),
			result.Generic, "replace %q", orig.path)
	}
}

// renameRetry renames from onto to, retrying a small fixed number of times
// when the failure is transient (a momentarily busy target). Non-transient
// failures surface immediately.
func (s *renameStrategy) renameRetry(from, to string) error {
	attempts := s.attempts
	if attempts <= 0 {
		attempts = renameAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = s.rename(from, to)
		if err == nil {
			return nil
		}
		if !result.IsRetryable(err) {
			break
		}
		logger().Warn("rename target busy, retrying",
			slog.String("from", from),
			slog.String("to", to),
			slog.Int("attempt", attempt))
		time.Sleep(s.delay)
	}
	return result.Wrapf(err, result.Translate(err), "rename %q over %q", from, to)
}

// reopen re-points the descriptor at its path with the flags it was opened
// with, minus the creation bits, re-establishing a lock when one was held.
//
// The stale token is released before the new lock is taken: the old token
// references the replaced node, and acquiring the path a second time while
// the old token is live would deadlock against ourselves when the
// replacement did not happen. Between the release and the relock another
// process could acquire the path; this narrow window is a documented
// property of the rename path, not an oversight.
func (d *Descriptor) reopen() error {
	hadLock := d.lock != nil
	if err := d.Unlock(); err != nil {
		logger().Warn("stale lock token release failed",
			slog.String("path", d.path), slog.Any("error", err))
	}
	if d.file != nil {
		_ = d.file.Close()
		d.file = nil
	}

	flags := d.flags &^ (OpenCreate | OpenExclusive)
	f, err := os.OpenFile(d.path, flags.osFlags(), 0)
	if err != nil {
		return result.Wrapf(err, result.Translate(err), "reopen %q", d.path)
	}

	d.file = f
	if hadLock || d.flags&OpenLocked != 0 {
		if err := d.Lock(DefaultLockWait); err != nil {
			_ = f.Close()
			d.file = nil
			return err
		}
	}
	return nil
}
