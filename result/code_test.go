package result_test

import (
	"testing"

	"github.com/safefile-io/safefile/result"
)

// allCodes is the closed set. Tests iterate it so a new code cannot be added
// without a description and a classification.
var allCodes = []result.Code{
	result.Success,
	result.Cancelled,
	result.Generic,
	result.Exists,
	result.LockFailed,
	result.ReadPastEnd,
	result.NotFound,
	result.NoPermission,
	result.NameTooLong,
	result.FileTooBig,
	result.NoSpace,
	result.QuotaExceeded,
}

// TestDescribeClosedSet verifies every code has non-empty diagnostic text.
func TestDescribeClosedSet(t *testing.T) {
	for _, code := range allCodes {
		t.Run(string(code), func(t *testing.T) {
			if msg := result.Describe(code); msg == "" {
				t.Errorf("Describe(%s) returned empty text", code)
			}
		})
	}
}

// TestDescribeUnknownCode verifies a value outside the closed set still
// produces non-empty default text instead of propagating an error.
func TestDescribeUnknownCode(t *testing.T) {
	got := result.Describe(result.Code("NOT_A_REAL_CODE"))
	if got != "Unknown error" {
		t.Errorf("Describe(unknown) = %q, want %q", got, "Unknown error")
	}
}

// TestDescribeQuotaSharesNoSpaceText pins the deliberate message sharing
// between the two out-of-space conditions.
func TestDescribeQuotaSharesNoSpaceText(t *testing.T) {
	if result.Describe(result.NoSpace) != result.Describe(result.QuotaExceeded) {
		t.Error("NoSpace and QuotaExceeded should share diagnostic text")
	}
}

func TestIsSuccess(t *testing.T) {
	if !result.Success.IsSuccess() {
		t.Error("Success.IsSuccess() = false")
	}
	for _, code := range allCodes[1:] {
		if code.IsSuccess() {
			t.Errorf("%s.IsSuccess() = true", code)
		}
	}
}
