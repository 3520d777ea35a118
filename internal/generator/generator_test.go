package generator

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

func newTestRegistry(t *testing.T) Registry {
	t.Helper()
	r, err := NewRegistry(Options{
		MachineID:      5,
		Epoch:          snowflake.Discord,
		NanoIDSize:     DefaultNanoIDSize,
		NanoIDAlphabet: DefaultNanoIDAlphabet,
		CUID2Length:    DefaultCUID2Length,
	}, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" ULID ")
	require.NoError(t, err)
	assert.Equal(t, KindULID, k)

	_, err = ParseKind("guid")
	assert.Error(t, err)
}

func TestRegistryHasEveryKind(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, []Kind{KindCUID2, KindKSUID, KindNanoID, KindSnowflake, KindULID, KindUUID}, r.Kinds())
	for _, k := range r.Kinds() {
		gen, err := r.Get(k)
		require.NoError(t, err)
		assert.Equal(t, k, gen.Kind())
	}

	_, err := r.Get(Kind("guid"))
	assert.Error(t, err)
}

func TestNewRegistryPropagatesErrors(t *testing.T) {
	base := Options{
		MachineID:      1,
		NanoIDSize:     DefaultNanoIDSize,
		NanoIDAlphabet: DefaultNanoIDAlphabet,
		CUID2Length:    DefaultCUID2Length,
	}

	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"machine id", func(o *Options) { o.MachineID = 2048 }},
		{"nanoid size", func(o *Options) { o.NanoIDSize = 0 }},
		{"nanoid alphabet", func(o *Options) { o.NanoIDAlphabet = "a" }},
		{"cuid2 length", func(o *Options) { o.CUID2Length = 64 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			_, err := NewRegistry(opts, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestGenerateValidateParse(t *testing.T) {
	r := newTestRegistry(t)

	for _, k := range r.Kinds() {
		t.Run(string(k), func(t *testing.T) {
			gen, _ := r.Get(k)

			ids, err := gen.GenerateBatch(20)
			require.NoError(t, err)
			require.Len(t, ids, 20)

			seen := map[string]bool{}
			for _, id := range ids {
				assert.False(t, seen[id], "duplicate %s", id)
				seen[id] = true

				valid, reason := gen.Validate(id)
				assert.True(t, valid, "%s: %s", id, reason)

				res, err := gen.Parse(id)
				require.NoError(t, err)
				assert.Equal(t, k, res.Type)
			}

			valid, _ := gen.Validate("!")
			assert.False(t, valid)
			_, err = gen.Parse("!")
			assert.Error(t, err)
		})
	}
}

func TestTimestampedKindsReportIssueTime(t *testing.T) {
	r := newTestRegistry(t)
	before := time.Now().Add(-time.Second)

	for _, k := range []Kind{KindSnowflake, KindULID, KindKSUID} {
		gen, _ := r.Get(k)
		id, err := gen.Generate()
		require.NoError(t, err)

		res, err := gen.Parse(id)
		require.NoError(t, err)
		require.NotNil(t, res.Timestamp, k)
		assert.True(t, res.Timestamp.After(before), "%s: %s", k, res.Timestamp)
		assert.WithinDuration(t, time.Now(), *res.Timestamp, 2*time.Second, k)
	}
}

func TestULIDMonotonicWithinBatch(t *testing.T) {
	fixed := time.Date(2025, 4, 8, 12, 0, 0, 0, time.UTC)
	g := newULIDGenerator(func() time.Time { return fixed })

	ids, err := g.GenerateBatch(100)
	require.NoError(t, err)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}

	res, err := g.Parse(ids[0])
	require.NoError(t, err)
	assert.True(t, res.Timestamp.Equal(fixed))
}

func TestUUIDValidateRequiresV4ParseAcceptsAny(t *testing.T) {
	g := NewUUIDGenerator()

	tests := []struct {
		name    string
		id      string
		version int
	}{
		{"v1", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", 1},
		{"v7", "01964f9c-2a3b-7c1d-8e2f-3a4b5c6d7e8f", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := g.Validate(tt.id)
			assert.False(t, valid)
			assert.Contains(t, reason, "expected UUID v4")

			res, err := g.Parse(tt.id)
			require.NoError(t, err)
			assert.Equal(t, KindUUID, res.Type)
			assert.Equal(t, tt.version, res.UUIDVersion)
			assert.Equal(t, "RFC4122", res.UUIDVariant)
		})
	}

	_, err := g.Parse("6ba7b810-9dad-11d1-80b4")
	assert.Error(t, err)
}

func TestKSUIDParse(t *testing.T) {
	g := NewKSUIDGenerator()

	res, err := g.Parse("0ujtsYcgvSTl8PAuAdqWYSMnLOv")
	require.NoError(t, err)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, time.Unix(1507608047, 0).UTC(), *res.Timestamp)
	assert.Equal(t, "b5a1cd34b5f99d1154fb6853345c9735", res.RandomPayload)

	for _, id := range []string{"", "0ujtsYcgvSTl8PAuAdqWYSMnLO", "0ujtsYcgvSTl8PAuAdqWYSMnLOvv"} {
		_, err := g.Parse(id)
		assert.Error(t, err, "%q", id)
	}
}

func TestNanoIDAlphabet(t *testing.T) {
	g, err := NewNanoIDGenerator(8, "ab")
	require.NoError(t, err)

	id, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, id, 8)
	assert.NotContains(t, id, "c")

	valid, reason := g.Validate("abababac")
	assert.False(t, valid)
	assert.Equal(t, "character 'c' not in alphabet", reason)

	res, err := g.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Length)
	assert.Equal(t, "ab", res.Alphabet)
}
