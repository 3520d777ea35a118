package generator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

// ErrClockMovedBackwards is returned when the clock reads earlier than the
// last millisecond an ID was issued for.
var ErrClockMovedBackwards = errors.New("clock moved backwards")

// SnowflakeGenerator issues snowflake IDs from the system clock. It owns the
// per-millisecond sequence that the snowflake package leaves to its callers.
type SnowflakeGenerator struct {
	codec  *snowflake.Generator
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	lastMs   int64 // last issued unix ms, -1 before the first ID
	sequence uint16
}

// NewSnowflakeGenerator creates a new SnowflakeGenerator.
// machineID must be in range [0, 1023].
func NewSnowflakeGenerator(machineID int64, epoch snowflake.Epoch, logger zerolog.Logger) (*SnowflakeGenerator, error) {
	if machineID < 0 || machineID > snowflake.MaxMachineID {
		return nil, fmt.Errorf("machine_id must be between 0 and %d, got %d", snowflake.MaxMachineID, machineID)
	}
	return &SnowflakeGenerator{
		codec:  snowflake.New(uint16(machineID), epoch),
		now:    time.Now,
		logger: logger,
		lastMs: -1,
	}, nil
}

func (g *SnowflakeGenerator) Kind() Kind {
	return KindSnowflake
}

// Codec exposes the underlying encoder/decoder.
func (g *SnowflakeGenerator) Codec() *snowflake.Generator {
	return g.codec
}

func (g *SnowflakeGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := g.nextLocked()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (g *SnowflakeGenerator) GenerateBatch(count int) ([]string, error) {
	if err := checkBatch(count); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := g.nextLocked()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, nil
}

// nextLocked must be called with g.mu held.
func (g *SnowflakeGenerator) nextLocked() (snowflake.ID, error) {
	now := g.now().UnixMilli()

	if now < g.lastMs {
		g.logger.Warn().
			Int64(pkglog.FieldNowMs, now).
			Int64(pkglog.FieldLastMs, g.lastMs).
			Msg("refusing to issue snowflake id, clock moved backwards")
		return 0, fmt.Errorf("%w: current=%d, last=%d", ErrClockMovedBackwards, now, g.lastMs)
	}

	seq := uint16(0)
	if now == g.lastMs {
		seq = (g.sequence + 1) & snowflake.MaxSequence
		if seq == 0 {
			// Sequence exhausted, wait for next millisecond
			for now <= g.lastMs {
				now = g.now().UnixMilli()
			}
		}
	}

	id, err := g.codec.FromSystemTime(time.UnixMilli(now), seq)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snowflake id: %w", err)
	}

	g.lastMs = now
	g.sequence = seq
	return id, nil
}

func (g *SnowflakeGenerator) Validate(id string) (bool, string) {
	parsed, err := snowflake.ParseID(id)
	if err != nil {
		return false, "invalid integer format"
	}
	if parsed.Uint64()>>63 != 0 {
		return false, "id exceeds 63 bits"
	}

	ts, _, _ := g.codec.Decode(parsed)
	if ts.After(g.now()) {
		return false, "timestamp is in the future"
	}
	return true, ""
}

func (g *SnowflakeGenerator) Parse(id string) (*ParseResult, error) {
	parsed, err := snowflake.ParseID(id)
	if err != nil {
		return nil, err
	}

	ts, machineID, seq := g.codec.Decode(parsed)
	return &ParseResult{
		Type:      KindSnowflake,
		Timestamp: &ts,
		MachineID: &machineID,
		Sequence:  &seq,
	}, nil
}
