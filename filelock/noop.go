package filelock

import "time"

// Noop is the Manager for environments where advisory locking is
// unsupported or unnecessary. Acquire always succeeds with an empty token
// and Release is a no-op, so code written against Manager behaves
// identically with either implementation.
type Noop struct{}

// Acquire implements Manager. It always succeeds.
func (Noop) Acquire(path string, mode Mode, timeout time.Duration) (*Token, error) {
	return &Token{path: path}, nil
}

// Release implements Manager. It never fails.
func (Noop) Release(token *Token) error {
	return nil
}
