//go:build !unix

package fileio

import (
	"io/fs"
	"os"
)

// fileAttributes carries the metadata replicated from an original file onto
// its sibling. Platforms without POSIX ownership propagate permission bits
// only; the ownership step degrades to a no-op rather than an error.
type fileAttributes struct {
	mode fs.FileMode
	uid  int
	gid  int
}

func readAttributes(f *os.File) (fileAttributes, error) {
	info, err := f.Stat()
	if err != nil {
		return fileAttributes{}, err
	}
	return fileAttributes{mode: info.Mode() & fs.ModePerm, uid: -1, gid: -1}, nil
}

func applyAttributes(f *os.File, attrs fileAttributes) error {
	return f.Chmod(attrs.mode)
}
