package fileio

import (
	"os"
	"path/filepath"

	"github.com/safefile-io/safefile/result"
)

// siblingSuffix is the fixed suffix appended to a fully resolved path to
// name its staging sibling. It is a pure function of the original path so
// the replacer can re-derive it without extra state.
const siblingSuffix = "~"

// applyAttrs is an indirection over applyAttributes so tests can force a
// failure after the sibling node exists.
var applyAttrs = applyAttributes

// SiblingPath returns the staging path for an original file: its fully
// resolved path with the sibling suffix appended. The sibling always lives
// in the same directory as the original, which the atomic replacement
// primitives require.
func SiblingPath(path string) (string, error) {
	full, err := resolveFullPath(path)
	if err != nil {
		return "", result.Wrapf(err, result.Translate(err), "resolve %q", path)
	}
	return full + siblingSuffix, nil
}

// resolveFullPath makes path absolute and resolves symlinks when the target
// exists. A path that does not (yet) resolve falls back to its absolute
// form, which is sufficient for naming a sibling next to it.
func resolveFullPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// CreateSibling creates the staging sibling for an original descriptor,
// replicating the original's permission bits and owning identity so the
// committed file is indistinguishable from an in-place update.
//
// The original's attributes are read before anything is created. A stale
// sibling left behind by an earlier crash is unlinked first (best effort; a
// missing file is not an error). Creation itself is exclusive: losing a race
// against a concurrent recreation of the sibling path reports Exists rather
// than silently adopting someone else's file.
//
// On any failure the partially created sibling is closed and unlinked; no
// file node is leaked.
func CreateSibling(orig *Descriptor) (*Descriptor, error) {
	if !orig.Valid() {
		return nil, result.New(result.Generic, "create sibling of an invalid descriptor")
	}

	tempPath, err := SiblingPath(orig.path)
	if err != nil {
		return nil, err
	}

	attrs, err := readAttributes(orig.file)
	if err != nil {
		return nil, result.Wrapf(err, result.Translate(err),
			"read attributes of %q", orig.path)
	}

	// Stale leftover from a crashed update.
	_ = os.Remove(tempPath)

	temp, err := Open(tempPath, AccessRead|AccessWrite|OpenExclusive, attrs.mode)
	if err != nil {
		return nil, err
	}

	if err := applyAttrs(temp.file, attrs); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return nil, result.Wrapf(err, result.Translate(err),
			"propagate attributes of %q onto %q", orig.path, tempPath)
	}

	return temp, nil
}
