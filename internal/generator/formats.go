package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nrednav/cuid2"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
)

const (
	DefaultNanoIDSize     = 21
	DefaultNanoIDAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultCUID2Length    = 24

	ksuidEncodedSize = 27
)

// format adapts an ID library to Generator. check reports why an ID is not
// one this generator would issue. inspect decodes any well-formed ID of the
// kind, which can be a wider set than check admits.
type format struct {
	kind    Kind
	next    func() (string, error)
	check   func(id string) error
	inspect func(id string) (*ParseResult, error)
}

func (f *format) Kind() Kind {
	return f.kind
}

func (f *format) Generate() (string, error) {
	id, err := f.next()
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f.kind, err)
	}
	return id, nil
}

func (f *format) GenerateBatch(count int) ([]string, error) {
	return batch(count, f.Generate)
}

func (f *format) Validate(id string) (bool, string) {
	if err := f.check(id); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (f *format) Parse(id string) (*ParseResult, error) {
	res, err := f.inspect(id)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", f.kind, err)
	}
	res.Type = f.kind
	return res, nil
}

// checked runs check before decode, for kinds whose Parse is as strict as
// Validate.
func checked(check func(string) error, decode func(string) (*ParseResult, error)) func(string) (*ParseResult, error) {
	return func(id string) (*ParseResult, error) {
		if err := check(id); err != nil {
			return nil, err
		}
		return decode(id)
	}
}

func checkLength(id string, want int) error {
	if n := len([]rune(id)); n != want {
		return fmt.Errorf("expected length %d, got %d", want, n)
	}
	return nil
}

// NewUUIDGenerator issues random (version 4) UUIDs. Validate admits only
// version 4; Parse reports the version and variant of any UUID.
func NewUUIDGenerator() Generator {
	return &format{
		kind: KindUUID,
		next: func() (string, error) {
			id, err := uuid.NewRandom()
			return id.String(), err
		},
		check: func(id string) error {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid UUID format: %v", err)
			}
			if parsed.Version() != 4 {
				return fmt.Errorf("expected UUID v4, got v%d", parsed.Version())
			}
			return nil
		},
		inspect: func(id string) (*ParseResult, error) {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("invalid UUID format: %v", err)
			}
			return &ParseResult{
				UUIDVersion: int(parsed.Version()),
				UUIDVariant: uuidVariantName(parsed.Variant()),
			}, nil
		},
	}
}

func uuidVariantName(v uuid.Variant) string {
	switch v {
	case uuid.RFC4122:
		return "RFC4122"
	case uuid.Reserved:
		return "Reserved"
	case uuid.Microsoft:
		return "Microsoft"
	case uuid.Future:
		return "Future"
	default:
		return "Unknown"
	}
}

// NewULIDGenerator issues ULIDs that strictly increase, including within a
// millisecond.
func NewULIDGenerator() Generator {
	return newULIDGenerator(time.Now)
}

func newULIDGenerator(now func() time.Time) *format {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)

	check := func(id string) error {
		if err := checkLength(id, ulid.EncodedSize); err != nil {
			return err
		}
		if _, err := ulid.ParseStrict(id); err != nil {
			return fmt.Errorf("invalid ULID format: %v", err)
		}
		return nil
	}

	return &format{
		kind: KindULID,
		next: func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			id, err := ulid.New(ulid.Timestamp(now()), entropy)
			return id.String(), err
		},
		check: check,
		inspect: checked(check, func(id string) (*ParseResult, error) {
			parsed, err := ulid.ParseStrict(id)
			if err != nil {
				return nil, fmt.Errorf("invalid ULID format: %v", err)
			}
			ts := ulid.Time(parsed.Time()).UTC()
			return &ParseResult{
				Timestamp:     &ts,
				RandomPayload: hex.EncodeToString(parsed.Entropy()),
			}, nil
		}),
	}
}

// NewKSUIDGenerator issues KSUIDs (second precision, 128-bit payload).
func NewKSUIDGenerator() Generator {
	check := func(id string) error {
		if err := checkLength(id, ksuidEncodedSize); err != nil {
			return err
		}
		if _, err := ksuid.Parse(id); err != nil {
			return fmt.Errorf("invalid KSUID format: %v", err)
		}
		return nil
	}

	return &format{
		kind: KindKSUID,
		next: func() (string, error) {
			id, err := ksuid.NewRandom()
			return id.String(), err
		},
		check: check,
		inspect: checked(check, func(id string) (*ParseResult, error) {
			parsed, err := ksuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("invalid KSUID format: %v", err)
			}
			ts := parsed.Time().UTC()
			return &ParseResult{
				Timestamp:     &ts,
				RandomPayload: hex.EncodeToString(parsed.Payload()),
			}, nil
		}),
	}
}

// NewNanoIDGenerator issues NanoIDs of size characters drawn from alphabet.
// size must be between 1 and 256; alphabet must have 2 to 255 characters.
func NewNanoIDGenerator(size int, alphabet string) (Generator, error) {
	if size < 1 || size > 256 {
		return nil, fmt.Errorf("nanoid size must be between 1 and 256, got %d", size)
	}
	if n := len([]rune(alphabet)); n < 2 || n > 255 {
		return nil, fmt.Errorf("nanoid alphabet must have between 2 and 255 characters, got %d", n)
	}

	check := func(id string) error {
		if err := checkLength(id, size); err != nil {
			return err
		}
		for _, c := range id {
			if !strings.ContainsRune(alphabet, c) {
				return fmt.Errorf("character '%c' not in alphabet", c)
			}
		}
		return nil
	}

	return &format{
		kind: KindNanoID,
		next: func() (string, error) {
			return gonanoid.Generate(alphabet, size)
		},
		check: check,
		inspect: checked(check, func(string) (*ParseResult, error) {
			return &ParseResult{Length: size, Alphabet: alphabet}, nil
		}),
	}, nil
}

// NewCUID2Generator issues CUID2 IDs of a fixed length between 2 and 32.
func NewCUID2Generator(length int) (Generator, error) {
	if length < 2 || length > 32 {
		return nil, fmt.Errorf("cuid2 length must be between 2 and 32, got %d", length)
	}
	next, err := cuid2.Init(cuid2.WithLength(length))
	if err != nil {
		return nil, fmt.Errorf("failed to init CUID2 generator: %w", err)
	}

	check := func(id string) error {
		if err := checkLength(id, length); err != nil {
			return err
		}
		if !cuid2.IsCuid(id) {
			return fmt.Errorf("invalid CUID2 format")
		}
		return nil
	}

	return &format{
		kind:  KindCUID2,
		next:  func() (string, error) { return next(), nil },
		check: check,
		inspect: checked(check, func(string) (*ParseResult, error) {
			return &ParseResult{Length: length}, nil
		}),
	}, nil
}
