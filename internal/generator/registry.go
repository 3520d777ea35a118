package generator

import (
	"github.com/rs/zerolog"

	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

// Options configures NewRegistry.
type Options struct {
	MachineID      int64
	Epoch          snowflake.Epoch
	NanoIDSize     int
	NanoIDAlphabet string
	CUID2Length    int
}

// NewRegistry builds one generator per kind.
func NewRegistry(opts Options, logger zerolog.Logger) (Registry, error) {
	sf, err := NewSnowflakeGenerator(opts.MachineID, opts.Epoch, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int64(pkglog.FieldMachineID, opts.MachineID).
		Stringer(pkglog.FieldEpoch, opts.Epoch).
		Msg("snowflake generator initialized")

	nanoid, err := NewNanoIDGenerator(opts.NanoIDSize, opts.NanoIDAlphabet)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("size", opts.NanoIDSize).Msg("nanoid generator initialized")

	cuid, err := NewCUID2Generator(opts.CUID2Length)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("length", opts.CUID2Length).Msg("cuid2 generator initialized")

	r := Registry{}
	for _, gen := range []Generator{
		sf,
		NewUUIDGenerator(),
		NewULIDGenerator(),
		NewKSUIDGenerator(),
		nanoid,
		cuid,
	} {
		r.Register(gen)
	}
	return r, nil
}
