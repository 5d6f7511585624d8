package mercury

import (
	"errors"
	"fmt"
)

// ErrRateLimited indicates the Mercury API returned HTTP 429. Retries back
// off for the full maximum delay before the next attempt.
var ErrRateLimited = errors.New("mercury: rate limited")

// TransientError wraps an upstream failure that survived bounded retries.
// Callers skip the affected account (or cycle) and try again next interval.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("mercury: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// DataFormatError indicates a response that parsed but did not match the
// expected shape. The offending record is logged and skipped; it never
// aborts processing of the remaining accounts in a cycle.
type DataFormatError struct {
	Op     string
	Detail string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("mercury: %s: %s", e.Op, e.Detail)
}

// IsTransient reports whether err should be absorbed for the current cycle
// rather than treated as a programming or configuration fault.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
