package result

// Classification indicates whether an error may succeed if the operation is
// retried. Components never retry on their own based on this value; it is
// information for the caller.
type Classification string

const (
	// ClassificationRetryable marks temporary failures: contended locks,
	// busy rename targets, interrupted system calls.
	ClassificationRetryable Classification = "RETRYABLE"

	// ClassificationPermanent marks failures that will not succeed on
	// retry: missing files, permission denials, exhausted quotas.
	ClassificationPermanent Classification = "PERMANENT"
)

// IsRetryable reports whether the classification allows a retry attempt.
func (c Classification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps each code to its default classification.
// A wrapped cause that is itself transient (see transientCause) can upgrade
// a permanent default to retryable.
var defaultClassifications = map[Code]Classification{
	Success:   ClassificationPermanent,
	Cancelled: ClassificationPermanent,

	// A lock held by another process is expected to be released.
	LockFailed: ClassificationRetryable,

	Generic:       ClassificationPermanent,
	Exists:        ClassificationPermanent,
	ReadPastEnd:   ClassificationPermanent,
	NotFound:      ClassificationPermanent,
	NoPermission:  ClassificationPermanent,
	NameTooLong:   ClassificationPermanent,
	FileTooBig:    ClassificationPermanent,
	NoSpace:       ClassificationPermanent,
	QuotaExceeded: ClassificationPermanent,
}

// defaultClassification returns the default classification for a code,
// falling back to permanent for anything outside the closed set.
func defaultClassification(c Code) Classification {
	if class, ok := defaultClassifications[c]; ok {
		return class
	}
	return ClassificationPermanent
}
