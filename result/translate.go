package result

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"syscall"
)

// Translate maps an operating system error to a Code. It is the single
// translation table used at component boundaries: each input maps to exactly
// one code, anything unrecognized maps to Generic, and a non-nil error never
// maps to Success.
//
// Lock acquisition has its own, slightly different table (EROFS means the
// lock cannot be taken, not that permission is lacking); that table lives in
// the filelock package.
func Translate(err error) Code {
	if err == nil {
		return Success
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EEXIST:
			return Exists
		case syscall.ENOENT:
			return NotFound
		case syscall.EACCES, syscall.EPERM:
			return NoPermission
		case syscall.ENAMETOOLONG:
			return NameTooLong
		case syscall.EFBIG:
			return FileTooBig
		case syscall.ENOSPC:
			return NoSpace
		case syscall.EDQUOT:
			return QuotaExceeded
		}
		return Generic
	}

	// Portable sentinels, for errors synthesized above the syscall layer.
	switch {
	case errors.Is(err, fs.ErrExist):
		return Exists
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return NoPermission
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ReadPastEnd
	case errors.Is(err, context.Canceled):
		return Cancelled
	}

	return Generic
}

// transientCause reports whether an OS-level error is one of the transient
// conditions that may clear on its own: a busy file, a momentarily
// unavailable resource, or an interrupted system call.
func transientCause(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.EBUSY, syscall.EAGAIN, syscall.ETXTBSY, syscall.EINTR:
		return true
	}
	// EWOULDBLOCK aliases EAGAIN on most platforms, so it cannot appear in
	// the switch above without tripping the duplicate-case restriction.
	return errno == syscall.EWOULDBLOCK
}
