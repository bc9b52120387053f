package fingerprint

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases
var (
	// ErrTooFewEntries indicates refresh data is too small to be a real OUI table
	ErrTooFewEntries = errors.New("too few OUI entries")

	// ErrNoCachePath indicates a refresh was attempted without a cache file location
	ErrNoCachePath = errors.New("no OUI cache path configured")
)

// CacheError wraps cache file errors with context
type CacheError struct {
	Op   string // Operation that failed (e.g., "read", "write")
	Path string
	Err  error // Underlying error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("oui cache %s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// ValidationError wraps validation errors with the invalid value
type ValidationError struct {
	Field string // Field that failed validation
	Value string // Invalid value
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
