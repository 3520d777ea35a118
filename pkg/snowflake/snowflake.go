// Package snowflake packs a timestamp, a machine ID and a sequence number into
// a 64-bit identifier and unpacks it again.
//
// Layout, most significant bit first:
//
//	| 41 bits elapsed ms since epoch | 10 bits machine ID | 12 bits sequence |
//
// A Generator is immutable once built and safe for concurrent use. It does
// not allocate sequence numbers: callers must supply a sequence that is unique
// per millisecond per machine ID.
package snowflake

import (
	"math"
	"time"
)

const (
	timestampBits = 41
	machineIDBits = 10
	sequenceBits  = 12

	MaxElapsed   = (1 << timestampBits) - 1 // ~69.7 years of ms
	MaxMachineID = (1 << machineIDBits) - 1 // 1023
	MaxSequence  = (1 << sequenceBits) - 1  // 4095

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

// now is the clock read by Generator.Now.
var now = time.Now

// Generator encodes and decodes IDs for one machine ID and epoch.
type Generator struct {
	machineID uint16 // masked to 10 bits
	epoch     time.Time
}

// New creates a Generator. Bits of machineID above the low 10 are discarded.
func New(machineID uint16, epoch Epoch) *Generator {
	return &Generator{
		machineID: machineID & MaxMachineID,
		epoch:     Resolve(epoch),
	}
}

// Option configures Build.
type Option func(*options)

type options struct {
	machineID uint16
	epoch     Epoch
}

// WithMachineID sets the machine ID. It is masked to 10 bits.
func WithMachineID(machineID uint16) Option {
	return func(o *options) { o.machineID = machineID }
}

// WithEpoch sets the epoch.
func WithEpoch(epoch Epoch) Option {
	return func(o *options) { o.epoch = epoch }
}

// Build creates a Generator from options. Unset values default to machine
// ID 1 and the Unix epoch.
func Build(opts ...Option) *Generator {
	o := options{machineID: 1, epoch: Unix}
	for _, opt := range opts {
		opt(&o)
	}
	return New(o.machineID, o.epoch)
}

func (g *Generator) MachineID() uint16 {
	return g.machineID
}

// Epoch returns the resolved reference instant.
func (g *Generator) Epoch() time.Time {
	return g.epoch
}

// Encode packs t and sequence into an ID. Bits of sequence above the low 12
// are discarded.
func (g *Generator) Encode(t time.Time, sequence uint16) (ID, error) {
	// Signed before any unsigned conversion so a negative delta is caught.
	delta := t.UnixMilli() - g.epoch.UnixMilli()
	if delta < 0 {
		return 0, ErrTimestampBeforeEpoch
	}
	if delta > MaxElapsed {
		return 0, ErrTimestampTooLarge
	}

	seq := uint64(sequence) & MaxSequence
	return ID(uint64(delta)<<timestampShift | uint64(g.machineID)<<machineIDShift | seq), nil
}

// FromUnixMillis encodes a timestamp given in milliseconds since the Unix epoch.
func (g *Generator) FromUnixMillis(millis uint64, sequence uint16) (ID, error) {
	if millis > math.MaxInt64 {
		return 0, ErrTimestampTooLarge
	}
	return g.Encode(time.UnixMilli(int64(millis)), sequence)
}

// FromSystemTime encodes a wall clock reading. Readings before the Unix epoch
// are rejected with ErrTimestampBeforeEpoch whatever the generator's epoch.
func (g *Generator) FromSystemTime(t time.Time, sequence uint16) (ID, error) {
	if t.Before(unixEpoch) {
		return 0, ErrTimestampBeforeEpoch
	}
	return g.FromUnixMillis(uint64(t.UnixMilli()), sequence)
}

// Now encodes the current system time.
func (g *Generator) Now(sequence uint16) (ID, error) {
	return g.FromSystemTime(now(), sequence)
}

// FromRFC3339 parses value as an RFC 3339 timestamp and encodes it.
// Parse failures are returned as *ParseError.
func (g *Generator) FromRFC3339(value string, sequence uint16) (ID, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, &ParseError{Value: value, Err: err}
	}
	return g.Encode(t, sequence)
}

// Decode unpacks id using the generator's epoch. The generator's machine ID
// plays no part; the returned machine ID is the one stored in id.
func (g *Generator) Decode(id ID) (time.Time, uint16, uint16) {
	return decode(id, g.epoch)
}

// DecodeWithEpoch unpacks id against epoch without a Generator.
func DecodeWithEpoch(id ID, epoch Epoch) (time.Time, uint16, uint16) {
	return decode(id, Resolve(epoch))
}

// decode is total: every bit pattern yields a triple, including ids whose
// top bit is set.
func decode(id ID, epoch time.Time) (time.Time, uint16, uint16) {
	elapsed := time.Duration(id.Elapsed()) * time.Millisecond
	return epoch.Add(elapsed).UTC(), id.MachineID(), id.Sequence()
}
