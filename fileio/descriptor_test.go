package fileio_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/safefile-io/safefile/fileio"
	"github.com/safefile-io/safefile/filelock"
	"github.com/safefile-io/safefile/result"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenReadWrite(t *testing.T) {
	path := writeTestFile(t, "before")

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite, 0)
	require.NoError(t, err)
	require.True(t, d.Valid())
	require.Equal(t, path, d.Name())
	require.Equal(t, fileio.AccessRead|fileio.AccessWrite, d.Flags())
	require.False(t, d.Locked())

	n, err := d.Write([]byte("after!"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	_, err = d.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(d)
	require.NoError(t, err)
	require.Equal(t, "after!", string(data))

	info, err := d.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(6), info.Size())

	require.NoError(t, d.Sync())
	require.NoError(t, d.Close())
	require.False(t, d.Valid())
}

func TestOpenCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh")

	d, err := fileio.Open(path, fileio.AccessWrite|fileio.OpenCreate, 0o600)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOpenMissing(t *testing.T) {
	_, err := fileio.Open(filepath.Join(t.TempDir(), "absent"), fileio.AccessRead, 0)
	require.Error(t, err)
	require.Equal(t, result.NotFound, result.CodeOf(err))
}

func TestOpenExclusiveExisting(t *testing.T) {
	path := writeTestFile(t, "present")

	_, err := fileio.Open(path, fileio.AccessWrite|fileio.OpenExclusive, 0o644)
	require.Error(t, err)
	require.Equal(t, result.Exists, result.CodeOf(err))
}

func TestOpenLocked(t *testing.T) {
	path := writeTestFile(t, "guarded")

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)
	require.True(t, d.Locked())

	// An independent manager observes the lock.
	outsider := filelock.NewFlock()
	_, err = outsider.Acquire(path, filelock.Exclusive, 0)
	require.Error(t, err)
	require.Equal(t, result.LockFailed, result.CodeOf(err))

	// Close releases the lock along with the handle.
	require.NoError(t, d.Close())
	token, err := outsider.Acquire(path, filelock.Exclusive, 0)
	require.NoError(t, err)
	require.NoError(t, outsider.Release(token))
}

func TestOpenLockedReadOnlyShares(t *testing.T) {
	path := writeTestFile(t, "guarded")

	d, err := fileio.Open(path, fileio.AccessRead|fileio.OpenLocked, 0)
	require.NoError(t, err)
	defer d.Close()

	// Read-only handles take the shared mode, so a second reader fits.
	outsider := filelock.NewFlock()
	token, err := outsider.Acquire(path, filelock.Shared, 0)
	require.NoError(t, err)
	require.NoError(t, outsider.Release(token))
}

func TestLockTwice(t *testing.T) {
	path := writeTestFile(t, "x")

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)
	defer d.Close()

	err = d.Lock(time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already holds a lock token")
}

func TestUnlockIdempotent(t *testing.T) {
	path := writeTestFile(t, "x")

	d, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Unlock())
	require.False(t, d.Locked())
	require.NoError(t, d.Unlock())
}

func TestCloseIdempotent(t *testing.T) {
	path := writeTestFile(t, "x")

	d, err := fileio.Open(path, fileio.AccessRead, 0)
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err = d.Read(make([]byte, 1))
	require.Error(t, err)
	require.Equal(t, result.Generic, result.CodeOf(err))
	_, err = d.Write([]byte("x"))
	require.Error(t, err)
	require.Error(t, d.Sync())
}

func TestCloseAndUnlink(t *testing.T) {
	path := writeTestFile(t, "x")

	d, err := fileio.Open(path, fileio.AccessRead, 0)
	require.NoError(t, err)
	require.NoError(t, d.CloseAndUnlink())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetLockManagerNoop(t *testing.T) {
	fileio.SetLockManager(filelock.Noop{})
	defer fileio.SetLockManager(nil)

	path := writeTestFile(t, "x")

	// With the no-op manager two exclusive locked handles coexist.
	first, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)
	second, err := fileio.Open(path, fileio.AccessRead|fileio.AccessWrite|fileio.OpenLocked, 0)
	require.NoError(t, err)

	require.True(t, first.Locked())
	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
}
