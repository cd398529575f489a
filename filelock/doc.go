// Package filelock acquires and releases advisory locks on files, with a
// bounded wait and deterministic error translation into the result package's
// closed code set.
//
// The advisory lock is the sole ordering mechanism between processes that
// cooperate on a file: it is respected only by participants using the same
// mechanism and does not prevent raw access that bypasses it.
//
// Two interchangeable implementations sit behind the Manager interface:
//
//   - Flock, backed by the platform's file locking primitive (flock on
//     Unix-like systems, LockFileEx on Windows) via github.com/gofrs/flock.
//   - Noop, for environments where the mechanism is unsupported or
//     unnecessary; every acquisition succeeds with an empty token.
//
// Acquisition fails closed: when the underlying primitive cannot determine
// success, the caller sees LockFailed, never Success. Releasing a nil or
// already-released token is a no-op.
package filelock
