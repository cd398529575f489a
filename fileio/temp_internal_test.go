package fileio

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safefile-io/safefile/result"
)

func TestCreateSiblingUnwindsOnAttributeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	orig, err := Open(path, AccessRead|AccessWrite, 0)
	require.NoError(t, err)
	defer orig.Close()

	restore := applyAttrs
	applyAttrs = func(f *os.File, attrs fileAttributes) error {
		return &os.PathError{Op: "chown", Path: f.Name(), Err: syscall.EPERM}
	}
	defer func() { applyAttrs = restore }()

	_, err = CreateSibling(orig)
	require.Error(t, err)
	require.Equal(t, result.NoPermission, result.CodeOf(err))

	// The partially created sibling was closed and unlinked; no node remains.
	_, statErr := os.Stat(path + "~")
	require.ErrorIs(t, statErr, os.ErrNotExist)
}
