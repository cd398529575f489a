package fileio

import (
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/safefile-io/safefile/filelock"
	"github.com/safefile-io/safefile/result"
)

// OpenFlag describes how a Descriptor was opened. The flags are retained on
// the handle so it can be transparently reopened later with identical
// semantics.
type OpenFlag uint32

const (
	// AccessRead opens the file for reading.
	AccessRead OpenFlag = 1 << iota

	// AccessWrite opens the file for writing.
	AccessWrite

	// AccessAppend positions every write at the end of the file.
	AccessAppend

	// OpenCreate creates the file if it does not exist.
	OpenCreate

	// OpenExclusive fails with Exists when the file is already present.
	// Implies creation.
	OpenExclusive

	// OpenLocked acquires the advisory lock at open time: shared for
	// read-only handles, exclusive otherwise. The lock is released when
	// the descriptor is closed.
	OpenLocked
)

// DefaultLockWait bounds the advisory lock wait for descriptors opened with
// OpenLocked. Callers needing a different bound lock explicitly via Lock.
const DefaultLockWait = 10 * time.Second

func (f OpenFlag) osFlags() int {
	var flags int
	switch {
	case f&AccessRead != 0 && f&AccessWrite != 0:
		flags = os.O_RDWR
	case f&AccessWrite != 0:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}
	if f&AccessAppend != 0 {
		flags |= os.O_APPEND
	}
	if f&OpenCreate != 0 {
		flags |= os.O_CREATE
	}
	if f&OpenExclusive != 0 {
		flags |= os.O_CREATE | os.O_EXCL
	}
	return flags
}

// lockMode derives the advisory lock mode from the access bits: handles that
// cannot write share the lock, handles that can hold it exclusively.
func (f OpenFlag) lockMode() filelock.Mode {
	if f&AccessWrite == 0 {
		return filelock.Shared
	}
	return filelock.Exclusive
}

// lockManager is the process-wide manager used by descriptor locking.
// Swappable so environments without advisory locking can install
// filelock.Noop and behave identically.
var lockManager filelock.Manager = filelock.NewFlock()

// SetLockManager installs the Manager used by OpenLocked descriptors and by
// Descriptor.Lock. Passing nil restores the platform default. Not safe to
// call concurrently with open descriptors.
func SetLockManager(m filelock.Manager) {
	if m == nil {
		m = filelock.NewFlock()
	}
	lockManager = m
}

// Descriptor is the open, optionally locked, named unit of state every
// operation in this package acts on.
//
// A Descriptor is either fully invalid (no platform handle, no lock token,
// usable only as a placeholder) or fully valid (platform handle open, lock
// token present iff locking was requested and acquired). No in-between state
// is observable.
//
// A Descriptor and its lock token are owned by exactly one logical operation
// at a time; concurrent use from multiple goroutines requires external
// serialization.
type Descriptor struct {
	path  string
	file  *os.File
	flags OpenFlag
	lock  *filelock.Token
}

// Open opens path with the given flags, creating it with perm when the flags
// ask for creation. With OpenLocked the advisory lock is acquired before Open
// returns, waiting up to DefaultLockWait; on lock failure the handle is
// closed and the error surfaced, so the caller never holds a half-locked
// descriptor.
func Open(path string, flags OpenFlag, perm fs.FileMode) (*Descriptor, error) {
	f, err := os.OpenFile(path, flags.osFlags(), perm)
	if err != nil {
		return nil, result.Wrapf(err, result.Translate(err), "open %q", path)
	}

	d := &Descriptor{path: path, file: f, flags: flags}
	if flags&OpenLocked != 0 {
		if err := d.Lock(DefaultLockWait); err != nil {
			_ = f.Close()
			d.file = nil
			return nil, err
		}
	}
	return d, nil
}

// Valid reports whether the descriptor holds an open platform handle.
func (d *Descriptor) Valid() bool {
	return d != nil && d.file != nil
}

// Name returns the path the descriptor was opened with.
func (d *Descriptor) Name() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Flags returns the open flags the descriptor was created with.
func (d *Descriptor) Flags() OpenFlag {
	return d.flags
}

// Locked reports whether the descriptor currently owns a lock token.
func (d *Descriptor) Locked() bool {
	return d != nil && d.lock != nil
}

// Lock acquires the advisory lock on the descriptor's path, shared for
// read-only handles and exclusive otherwise, waiting at most timeout. A
// descriptor already holding a token must release it first; asking for a
// second lock is a programming error, not an upgrade.
func (d *Descriptor) Lock(timeout time.Duration) error {
	if !d.Valid() {
		return result.New(result.Generic, "lock on an invalid descriptor")
	}
	if d.lock != nil {
		return result.Newf(result.Generic,
			"descriptor for %q already holds a lock token", d.path)
	}

	token, err := lockManager.Acquire(d.path, d.flags.lockMode(), timeout)
	if err != nil {
		logger().Warn("advisory lock not acquired",
			slog.String("path", d.path),
			slog.String("mode", d.flags.lockMode().String()),
			slog.Any("error", err))
		return err
	}
	d.lock = token
	return nil
}

// Unlock releases the descriptor's lock token. It is idempotent: unlocking a
// descriptor that holds no token is a no-op returning nil. The token is
// considered consumed even when the underlying release reports a failure, so
// it cannot be double-freed.
func (d *Descriptor) Unlock() error {
	if d == nil || d.lock == nil {
		return nil
	}
	token := d.lock
	d.lock = nil
	return lockManager.Release(token)
}

// Close releases the lock token before the platform handle, then reverts the
// descriptor to the invalid state. Closing an invalid descriptor is a no-op.
func (d *Descriptor) Close() error {
	if !d.Valid() {
		return nil
	}

	unlockErr := d.Unlock()
	f := d.file
	d.file = nil
	if err := f.Close(); err != nil {
		return result.Wrapf(err, result.Translate(err), "close %q", d.path)
	}
	return unlockErr
}

// CloseAndUnlink closes the descriptor and removes the file node at its
// path. The first failure wins, but both steps are always attempted.
func (d *Descriptor) CloseAndUnlink() error {
	path := d.Name()
	closeErr := d.Close()
	if err := os.Remove(path); err != nil && closeErr == nil {
		return result.Wrapf(err, result.Translate(err), "unlink %q", path)
	}
	return closeErr
}

// Read reads from the platform handle.
func (d *Descriptor) Read(p []byte) (int, error) {
	if !d.Valid() {
		return 0, result.New(result.Generic, "read on an invalid descriptor")
	}
	return d.file.Read(p)
}

// Write writes to the platform handle.
func (d *Descriptor) Write(p []byte) (int, error) {
	if !d.Valid() {
		return 0, result.New(result.Generic, "write on an invalid descriptor")
	}
	return d.file.Write(p)
}

// Seek repositions the platform handle.
func (d *Descriptor) Seek(offset int64, whence int) (int64, error) {
	if !d.Valid() {
		return 0, result.New(result.Generic, "seek on an invalid descriptor")
	}
	return d.file.Seek(offset, whence)
}

// Sync flushes the platform handle's written data to stable storage.
func (d *Descriptor) Sync() error {
	if !d.Valid() {
		return result.New(result.Generic, "sync on an invalid descriptor")
	}
	if err := d.file.Sync(); err != nil {
		return result.Wrapf(err, result.Translate(err), "sync %q", d.path)
	}
	return nil
}

// Stat returns metadata for the open file.
func (d *Descriptor) Stat() (fs.FileInfo, error) {
	if !d.Valid() {
		return nil, result.New(result.Generic, "stat on an invalid descriptor")
	}
	info, err := d.file.Stat()
	if err != nil {
		return nil, result.Wrapf(err, result.Translate(err), "stat %q", d.path)
	}
	return info, nil
}
