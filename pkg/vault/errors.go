package vault

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupted marks a vault file that exists but cannot be decrypted or
	// parsed. A missing file is never reported as corruption.
	ErrCorrupted = errors.New("vault: corrupted")
	// ErrInvalidPlatform reports a blank platform identifier.
	ErrInvalidPlatform = errors.New("vault: invalid platform")
)

// CorruptionError wraps the underlying decode/decrypt failure together with
// the file path so callers can decide between failing hard and degrading to
// an empty vault.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("vault: corrupted file %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorrupted) match any corruption error.
func (e *CorruptionError) Is(target error) bool { return target == ErrCorrupted }
