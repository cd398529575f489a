// Package fileio provides crash-safe, cross-process-safe replacement of a
// file's contents on a local filesystem.
//
// The core guarantee: a file updated through this package is never observable
// in a half-written state, even if the process dies mid-operation. New
// content is staged in a sibling file next to the original and committed with
// an atomic replacement primitive, while an advisory lock (see the filelock
// package) serializes cooperating processes.
//
// # The update flow
//
//	orig, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite, 0)
//	// handle err
//	defer orig.Close()
//
//	if err := orig.Lock(5 * time.Second); err != nil {
//	    // contended or unlockable
//	}
//
//	err = fileio.Update(orig, func(tmp *fileio.Descriptor) error {
//	    _, err := tmp.Write(newContent)
//	    return err
//	})
//
// Update composes the three steps (CreateSibling, caller-provided fill,
// Replace) and unwinds the sibling on any failure, so no temporary file
// node survives an aborted update.
//
// # Replacement strategies
//
// Replace selects one of two strategies once, via a capability probe, and
// hides the choice behind a single contract:
//
//   - a directory-scoped exchange (Linux RENAME_EXCHANGE), used where the
//     kernel and filesystem support it, which swaps the two names while both
//     files may be concurrently open;
//   - a rename-based replacement, the general path, which closes the
//     original's platform handle without dropping its advisory lock, renames
//     the sibling over the original with a bounded retry against transient
//     busy conditions, and reopens the original with its prior flags.
//
// On either path the caller's Descriptor remains valid after a successful
// commit, holding the same flags (and lock, when requested) as before.
//
// # Errors
//
// All failures are reported through the result package's closed code set.
// The one condition a caller cannot recover from, the original not being
// reopenable after the on-disk replacement already happened, wraps
// ErrUnrecoverable and is logged at error level.
package fileio
