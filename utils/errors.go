package utils

import "fmt"

// MalformedError reports an atom header that cannot describe a valid atom,
// such as a declared size smaller than the header itself.
type MalformedError struct {
	Tag    string
	Offset int64
	Reason string
}

// Error returns the error message for MalformedError.
func (e *MalformedError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("malformed atom at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("malformed atom '%s' at offset %d: %s", e.Tag, e.Offset, e.Reason)
}

// TruncatedError reports an atom whose declared size exceeds the bytes available.
type TruncatedError struct {
	Tag       string
	Offset    int64
	Declared  uint64
	Available uint64
}

// Error returns the error message for TruncatedError.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated atom '%s' at offset %d: declared %d bytes, %d available",
		e.Tag, e.Offset, e.Declared, e.Available)
}

// NotFoundError reports that the requested atom is absent at the expected position.
type NotFoundError struct {
	Tag string
}

// Error returns the error message for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("atom '%s' not found", e.Tag)
}
