package fileio_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safefile-io/safefile/fileio"
	"github.com/safefile-io/safefile/filelock"
	"github.com/safefile-io/safefile/result"
)

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o640))

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite, 0)
	require.NoError(t, err)
	defer d.Close()

	err = fileio.Update(d, func(temp *fileio.Descriptor) error {
		if _, err := temp.Write([]byte("a = 2\n")); err != nil {
			return err
		}
		return temp.Sync()
	})
	require.NoError(t, err)

	// The on-disk content changed in one step and kept its permissions.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a = 2\n", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	// The caller's handle reads the new content without reopening anything.
	require.True(t, d.Valid())
	_, err = d.Seek(0, io.SeekStart)
	require.NoError(t, err)
	fresh, err := io.ReadAll(d)
	require.NoError(t, err)
	require.Equal(t, "a = 2\n", string(fresh))

	// No staging file survives a successful update.
	_, err = os.Stat(path + "~")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpdateFillError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite, 0)
	require.NoError(t, err)
	defer d.Close()

	boom := result.New(result.NoSpace, "device full")
	err = fileio.Update(d, func(temp *fileio.Descriptor) error {
		_, _ = temp.Write([]byte("partial"))
		return boom
	})
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.Equal(t, result.NoSpace, result.CodeOf(err))

	// The original is untouched and the staging file was unwound.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a = 1\n", string(data))
	_, err = os.Stat(path + "~")
	require.ErrorIs(t, err, os.ErrNotExist)

	// The handle stays usable.
	require.True(t, d.Valid())
}

func TestUpdateKeepsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	d, err := fileio.Open(path,
		fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)
	defer d.Close()

	err = fileio.Update(d, func(temp *fileio.Descriptor) error {
		_, err := temp.Write([]byte("a = 2\n"))
		return err
	})
	require.NoError(t, err)

	// The replacement re-established the advisory lock on the new node.
	require.True(t, d.Locked())
	outsider := filelock.NewFlock()
	_, err = outsider.Acquire(path, filelock.Exclusive, 0)
	require.Error(t, err)
	require.Equal(t, result.LockFailed, result.CodeOf(err))
}

func TestUpdateInvalidDescriptor(t *testing.T) {
	err := fileio.Update(&fileio.Descriptor{}, func(*fileio.Descriptor) error {
		return errors.New("never reached")
	})
	require.Error(t, err)
	require.Equal(t, result.Generic, result.CodeOf(err))
}
