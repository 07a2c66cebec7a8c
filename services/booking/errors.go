package booking

import (
	"fmt"
	"time"
)

// ValidationError reports malformed input rejected before any repository
// access. Always recoverable by correcting the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoCandidatesError means no expert met the minimum match score, or none had
// any future availability. Callers surface this as "add to waitlist", not as
// a hard failure.
type NoCandidatesError struct {
	Category string
	Reason   string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no candidates for %q: %s", e.Category, e.Reason)
}

// ConflictError names the specific competing booking that blocks the requested
// slot. It is a definitive rejection; the caller must pick another slot.
type ConflictError struct {
	ExpertID     int
	BookingID    string
	BookingStart time.Time
	CustomerName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("expert %d already booked at %s (booking %s)",
		e.ExpertID, e.BookingStart.Format(time.RFC3339), e.BookingID)
}

// TransientStorageError is a retryable failure surfaced after the bounded
// internal retries have been exhausted: transaction write conflicts, commit
// uncertainty, lock waits. Distinct from ConflictError — the slot may well be
// free.
type TransientStorageError struct {
	Attempts int
	Err      error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("reservation did not complete after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

// RepositoryError wraps any other storage failure. The booking path fails
// closed on it: uncertainty means "cannot book", never "can book".
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }
