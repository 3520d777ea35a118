package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MaxBatch caps GenerateBatch.
const MaxBatch = 1000

// Kind names an ID format.
type Kind string

const (
	KindSnowflake Kind = "snowflake"
	KindUUID      Kind = "uuid"
	KindULID      Kind = "ulid"
	KindKSUID     Kind = "ksuid"
	KindNanoID    Kind = "nanoid"
	KindCUID2     Kind = "cuid2"
)

// ParseKind resolves a case-insensitive kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindSnowflake, KindUUID, KindULID, KindKSUID, KindNanoID, KindCUID2:
		return k, nil
	}
	return "", fmt.Errorf("unknown ID type: %q", s)
}

// Generator defines the interface for ID generation, validation, and parsing.
type Generator interface {
	Kind() Kind
	Generate() (string, error)
	GenerateBatch(count int) ([]string, error)
	Validate(id string) (bool, string) // (valid, reason)
	Parse(id string) (*ParseResult, error)
}

// ParseResult holds the fields recovered from an ID. Only the fields that
// the ID's kind carries are set.
type ParseResult struct {
	Type          Kind       `json:"type"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`  // snowflake, ulid, ksuid
	MachineID     *uint16    `json:"machine_id,omitempty"` // snowflake
	Sequence      *uint16    `json:"sequence,omitempty"`   // snowflake
	UUIDVersion   int        `json:"uuid_version,omitempty"`
	UUIDVariant   string     `json:"uuid_variant,omitempty"`
	RandomPayload string     `json:"random_payload,omitempty"` // ulid, ksuid: hex
	Length        int        `json:"length,omitempty"`         // nanoid, cuid2
	Alphabet      string     `json:"alphabet,omitempty"`       // nanoid
}

// Registry maps each kind to its generator.
type Registry map[Kind]Generator

// Get returns the generator for k.
func (r Registry) Get(k Kind) (Generator, error) {
	gen, ok := r[k]
	if !ok {
		return nil, fmt.Errorf("unknown ID type: %v", k)
	}
	return gen, nil
}

// Kinds lists the registered kinds in name order.
func (r Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Register adds gen under its own kind.
func (r Registry) Register(gen Generator) {
	r[gen.Kind()] = gen
}

func checkBatch(count int) error {
	if count < 1 || count > MaxBatch {
		return fmt.Errorf("count must be between 1 and %d, got %d", MaxBatch, count)
	}
	return nil
}

// batch calls next count times, stopping at the first error.
func batch(count int, next func() (string, error)) ([]string, error) {
	if err := checkBatch(count); err != nil {
		return nil, err
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := next()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
