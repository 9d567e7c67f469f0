package achievement

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConflict is returned by Store.WriteTierIndex when the stored tier index no longer
	// matches the expected one (a concurrent check already advanced the track).
	ErrConflict = errors.New("achievement: tier index changed concurrently")
	// ErrNotFound is returned when the user has no progression record.
	ErrNotFound = errors.New("achievement: progression not found")
)

// Store reads and conditionally updates the progression data of users.
type Store interface {
	// ReadProgression returns the counters and stored tier indices of userID in one consistent read.
	ReadProgression(ctx context.Context, userID string) (Progression, error)
	// WriteTierIndex sets the tier index of track to next only if it is still expected.
	// It returns ErrConflict otherwise.
	WriteTierIndex(ctx context.Context, userID string, track TrackName, expected, next int) error
}

// RetryableError wraps a transient storage failure. Calling Check again is safe.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("achievement: %s: %v", e.Op, e.Err)
}

func (e *RetryableError) Cause() error  { return e.Err }
func (e *RetryableError) Unwrap() error { return e.Err }

func retryable(err error, op string) error {
	return &RetryableError{Op: op, Err: err}
}

// IsRetryable reports whether err is a transient failure of a progression check.
func IsRetryable(err error) bool {
	for err != nil {
		if _, ok := err.(*RetryableError); ok {
			return true
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
