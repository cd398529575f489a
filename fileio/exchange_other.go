//go:build !linux

package fileio

import "github.com/safefile-io/safefile/result"

// exchangeSupported reports whether a directory-scoped exchange primitive
// exists on this platform. Only Linux carries one, so the capability probe
// is a constant everywhere else and the rename strategy is always selected.
func exchangeSupported() bool { return false }

// exchangeStrategy exists on every platform so strategy selection compiles
// uniformly; it is unreachable where the probe reports false.
type exchangeStrategy struct{}

func (s *exchangeStrategy) name() string { return "exchange" }

func (s *exchangeStrategy) replace(temp, orig *Descriptor) error {
	return result.New(result.Generic,
		"directory-scoped exchange is not supported on this platform")
}
