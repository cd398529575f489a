//go:build unix

package fileio

import (
	"io/fs"
	"os"
	"syscall"
)

// fileAttributes carries the metadata replicated from an original file onto
// its sibling: the permission bits (plus setuid/setgid/sticky) and the
// owning identity.
type fileAttributes struct {
	mode fs.FileMode
	uid  int
	gid  int
}

// readAttributes reads the attributes off an open file before its sibling is
// created, so the sibling can never be observed with the wrong metadata.
func readAttributes(f *os.File) (fileAttributes, error) {
	info, err := f.Stat()
	if err != nil {
		return fileAttributes{}, err
	}

	attrs := fileAttributes{
		mode: info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky),
		uid:  -1,
		gid:  -1,
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		attrs.uid = int(st.Uid)
		attrs.gid = int(st.Gid)
	}
	return attrs, nil
}

// applyAttributes propagates the captured attributes onto the sibling.
// Ownership is only applied when it could be read; a failure to apply it is
// an error, because silently committing a file owned by the wrong identity
// would survive the replacement.
func applyAttributes(f *os.File, attrs fileAttributes) error {
	if err := f.Chmod(attrs.mode); err != nil {
		return err
	}
	if attrs.uid >= 0 || attrs.gid >= 0 {
		if err := f.Chown(attrs.uid, attrs.gid); err != nil {
			return err
		}
	}
	return nil
}
