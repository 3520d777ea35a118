package snowflake

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a packed 64-bit snowflake identifier.
// It carries no epoch; decoding needs the epoch it was encoded with.
type ID uint64

// ParseID parses the decimal form produced by ID.String.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) Uint64() uint64 {
	return uint64(id)
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Elapsed returns the milliseconds-since-epoch field.
func (id ID) Elapsed() uint64 {
	return uint64(id) >> timestampShift
}

func (id ID) MachineID() uint16 {
	return uint16((uint64(id) >> machineIDShift) & MaxMachineID)
}

func (id ID) Sequence() uint16 {
	return uint16(uint64(id) & MaxSequence)
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON encodes the ID as a quoted decimal string so JavaScript
// clients do not lose precision above 2^53.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON accepts both the quoted and the bare numeric form.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	return id.UnmarshalText(data)
}
