package filelock

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/safefile-io/safefile/result"
)

// DefaultRetryDelay is the polling interval used while waiting for a
// contended lock.
const DefaultRetryDelay = 50 * time.Millisecond

// Flock is the Manager backed by the platform file locking primitive.
// The zero value is usable; NewFlock fills in the defaults explicitly.
type Flock struct {
	// RetryDelay overrides the polling interval for bounded waits.
	RetryDelay time.Duration
}

// NewFlock returns a Flock manager with default settings.
func NewFlock() *Flock {
	return &Flock{RetryDelay: DefaultRetryDelay}
}

// Acquire implements Manager. The lock is taken on the file itself, so the
// path must resolve; a missing file reports NotFound rather than creating
// state that did not exist before the call failed.
func (m *Flock) Acquire(path string, mode Mode, timeout time.Duration) (*Token, error) {
	// Open read-only and without O_CREATE: the lock is carried by the file
	// itself, and a failed acquisition must not create state that was not
	// there before the call.
	fl := flock.New(path, flock.SetFlag(os.O_RDONLY))

	var (
		locked bool
		err    error
	)
	if timeout <= 0 {
		locked, err = m.tryOnce(fl, mode)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		locked, err = m.tryUntil(ctx, fl, mode)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			m.logf("lock wait timed out", path, mode, timeout)
			return nil, result.Newf(result.LockFailed,
				"%s lock on %q not acquired within %v", mode, path, timeout)
		}
		return nil, translateLockError(err, path, mode)
	}
	if !locked {
		// Fail closed: no determination of success means no lock.
		m.logf("lock held by another holder", path, mode, timeout)
		return nil, result.Newf(result.LockFailed,
			"%s lock on %q is held by another holder", mode, path)
	}

	return &Token{path: path, fl: fl}, nil
}

// Release implements Manager. The token is dead after the call even when the
// underlying unlock reports a failure, so a second Release is a no-op.
func (m *Flock) Release(token *Token) error {
	if !token.held() {
		return nil
	}

	fl := token.fl
	token.fl = nil
	if err := fl.Unlock(); err != nil {
		return result.Wrapf(err, result.Generic,
			"release lock on %q", token.path)
	}
	return nil
}

func (m *Flock) tryOnce(fl *flock.Flock, mode Mode) (bool, error) {
	if mode == Shared {
		return fl.TryRLock()
	}
	return fl.TryLock()
}

func (m *Flock) tryUntil(ctx context.Context, fl *flock.Flock, mode Mode) (bool, error) {
	delay := m.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if mode == Shared {
		return fl.TryRLockContext(ctx, delay)
	}
	return fl.TryLockContext(ctx, delay)
}

func (m *Flock) logf(msg, path string, mode Mode, timeout time.Duration) {
	logger().Warn(msg,
		slog.String("path", path),
		slog.String("mode", mode.String()),
		slog.Duration("timeout", timeout))
}

// translateLockError is the fixed table from underlying lock failures to
// result codes. It differs from result.Translate in the EROFS and
// would-block rows: both mean the lock was not acquired, not that the file
// is inaccessible.
func translateLockError(err error, path string, mode Mode) *result.Error {
	code := result.Generic

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch {
		case errno == syscall.EROFS:
			// An exclusive lock cannot be carried by a read-only medium.
			code = result.LockFailed
		case errno == syscall.EAGAIN || errno == syscall.EWOULDBLOCK:
			code = result.LockFailed
		case errno == syscall.ENAMETOOLONG:
			code = result.NameTooLong
		case errno == syscall.ENOENT:
			code = result.NotFound
		case errno == syscall.EACCES:
			code = result.NoPermission
		}
	}

	return result.Wrapf(err, code, "%s lock on %q", mode, path)
}
