package filelock

import (
	"time"

	"github.com/gofrs/flock"
)

// Mode selects between shared and exclusive acquisition.
type Mode int

const (
	// Shared allows any number of concurrent shared holders and excludes
	// exclusive ones. Used by read-only descriptors.
	Shared Mode = iota

	// Exclusive excludes every other holder.
	Exclusive
)

// String returns "shared" or "exclusive".
func (m Mode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Token represents one advisory lock held on one path by this process.
// A token is owned by exactly one holder at a time, is never copied, and is
// destroyed exactly once: either by Manager.Release or when its owning file
// descriptor is closed.
type Token struct {
	path string
	fl   *flock.Flock
}

// Path returns the path the lock was taken on.
func (t *Token) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// held reports whether the token still carries a live lock. A token from
// the Noop manager never does.
func (t *Token) held() bool {
	return t != nil && t.fl != nil
}

// Manager acquires and releases advisory locks. Implementations must be
// interchangeable: callers may not assume anything about the mechanism
// beyond the contract documented here.
type Manager interface {
	// Acquire takes the advisory lock on path in the given mode, waiting
	// at most timeout for a contended lock. A timeout of zero (or below)
	// makes a single non-blocking attempt. On failure no token is
	// produced and no lock is held.
	Acquire(path string, mode Mode, timeout time.Duration) (*Token, error)

	// Release drops the lock held by token. Releasing a nil token or one
	// that has already been released is a no-op, never an error.
	Release(token *Token) error
}
