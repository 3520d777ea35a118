package snowflake

import (
	"errors"
	"fmt"
)

var (
	// ErrTimestampBeforeEpoch is returned when the instant to encode precedes
	// the generator's epoch, or a clock reading precedes the Unix epoch.
	ErrTimestampBeforeEpoch = errors.New("timestamp is before the epoch")

	// ErrTimestampTooLarge is returned when the elapsed milliseconds do not
	// fit in the 41-bit timestamp field.
	ErrTimestampTooLarge = errors.New("timestamp exceeds the 41-bit limit")
)

// ParseError reports an RFC 3339 timestamp that could not be parsed.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("RFC3339 parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
