// Package result defines the closed set of result codes used by the
// safefile storage core, along with a structured error type that carries a
// code, a retry classification, and a wrapped cause.
//
// Every fallible operation in this repository reports failures through this
// package. Low-level operating system errors are translated to a Code at the
// boundary of each component via Translate and never leak past it; an
// unmapped OS error becomes Generic, never Success.
//
// # Codes and Classification
//
// Codes form a closed set: no component may invent a new one. Each code has
// a default classification of retryable or permanent. Classification exists
// so callers can distinguish transient conditions (a busy rename target, a
// contended lock) from permanent ones without growing the code set; the
// retry decision itself always stays with the caller.
//
// # Usage
//
//	if err := fileio.Replace(tmp, orig); err != nil {
//	    if result.CodeOf(err) == result.LockFailed {
//	        // contended; try again later
//	    }
//	}
//
// Errors created here are compatible with errors.Is, errors.As and
// errors.Unwrap.
package result
