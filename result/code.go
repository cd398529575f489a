package result

import "log/slog"

// Code identifies one condition from the closed result set.
// Codes are string-based for debuggability and natural log output.
type Code string

const (
	// Success indicates the operation completed.
	Success Code = "SUCCESS"

	// Cancelled indicates the operation was cancelled by the caller.
	Cancelled Code = "CANCELLED"

	// Generic indicates a failure with no more specific code. Any
	// unrecognized operating system error translates to Generic.
	Generic Code = "ERROR"

	// Exists indicates the file already exists.
	Exists Code = "ALREADY_EXISTS"

	// LockFailed indicates an advisory lock was not acquired: the file is
	// locked by another holder, the wait timed out, or the medium cannot
	// carry the lock.
	LockFailed Code = "LOCK_FAILED"

	// ReadPastEnd indicates a read beyond the end of the file.
	ReadPastEnd Code = "READ_PAST_END"

	// NotFound indicates the file could not be found.
	NotFound Code = "NOT_FOUND"

	// NoPermission indicates the caller lacks rights to the file.
	NoPermission Code = "NO_PERMISSION"

	// NameTooLong indicates a path segment exceeds the system limit.
	NameTooLong Code = "NAME_TOO_LONG"

	// FileTooBig indicates the file exceeds a size limit.
	FileTooBig Code = "FILE_TOO_BIG"

	// NoSpace indicates the device is out of space.
	NoSpace Code = "NO_SPACE"

	// QuotaExceeded indicates a disk quota was exhausted.
	QuotaExceeded Code = "QUOTA_EXCEEDED"
)

// IsSuccess reports whether the code is Success.
func (c Code) IsSuccess() bool {
	return c == Success
}

// descriptions maps every member of the closed set to its diagnostic text.
// QuotaExceeded deliberately shares NoSpace's message: to the user both mean
// the write cannot be accommodated on the device.
var descriptions = map[Code]string{
	Success:       "Success",
	Cancelled:     "The operation was canceled by the user",
	Generic:       "Error",
	Exists:        "The file already exists",
	LockFailed:    "Failed to lock the file",
	ReadPastEnd:   "Tried to read beyond the end of the file",
	NotFound:      "Could not find the file",
	NoPermission:  "Insufficient permission to access the file",
	NameTooLong:   "The file name is too long",
	FileTooBig:    "The file is too large",
	NoSpace:       "There is no space left on the device",
	QuotaExceeded: "There is no space left on the device",
}

// Describe returns the diagnostic message for a code. A value outside the
// closed set is a programming defect; Describe logs it loudly and returns a
// non-empty default rather than failing.
func Describe(c Code) string {
	if msg, ok := descriptions[c]; ok {
		return msg
	}
	logger().Error("describe called with a code outside the closed set",
		slog.String("code", string(c)))
	return "Unknown error"
}
