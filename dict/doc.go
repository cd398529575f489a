// Package dict is a line-oriented key/value dictionary persisted through the
// fileio core, for small configuration files that must never be observed
// half-written.
//
// The on-disk format is one assignment per line:
//
//	pollInterval = "300"
//	log = "TRUE"
//
// Values are quoted with Go escaping; blank lines and lines starting with
// '#' are ignored on load. Insertion order is preserved across load/save
// cycles, comments are not.
//
// Save takes the advisory lock on the dictionary file, stages the new
// content in a sibling, and commits it atomically, so concurrent savers are
// serialized and a crash mid-save leaves the previous content intact.
package dict
