package availability

import "fmt"

// InvalidRangeError reports malformed or overlapping availability ranges.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalidRange: %s", e.Reason)
}

func NewInvalidRangeError(format string, args ...any) error {
	return &InvalidRangeError{Reason: fmt.Sprintf(format, args...)}
}
