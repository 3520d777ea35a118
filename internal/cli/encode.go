package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

// codecFlags are the per-command overrides of the configured machine ID and epoch.
type codecFlags struct {
	machineID int64
	epoch     string
}

func (f *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.machineID, "machine-id", 0, "Machine ID 0-1023 (default from config)")
	cmd.Flags().StringVar(&f.epoch, "epoch", "", "Epoch: unix|discord|RFC3339|unix ms with optional ms suffix, e.g. 1577836800000ms (default from config)")
}

func (a *app) resolveEpoch(cmd *cobra.Command, f *codecFlags) (snowflake.Epoch, error) {
	if !cmd.Flags().Changed("epoch") {
		return a.cfg.Epoch(), nil
	}
	return snowflake.ParseEpoch(f.epoch)
}

func (a *app) codec(cmd *cobra.Command, f *codecFlags) (*snowflake.Generator, error) {
	machineID := a.cfg.Snowflake.MachineID
	if cmd.Flags().Changed("machine-id") {
		machineID = f.machineID
	}
	if machineID < 0 || machineID > snowflake.MaxMachineID {
		return nil, fmt.Errorf("--machine-id must be between 0 and %d, got %d", snowflake.MaxMachineID, machineID)
	}

	epoch, err := a.resolveEpoch(cmd, f)
	if err != nil {
		return nil, err
	}
	return snowflake.New(uint16(machineID), epoch), nil
}

func (a *app) newEncodeCommand() *cobra.Command {
	var (
		cf       codecFlags
		millis   uint64
		rfc3339  string
		useNow   bool
		sequence uint16
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Pack a timestamp, machine ID and sequence into an ID",
		Long: "Pack a timestamp, machine ID and sequence into an ID.\n" +
			"The timestamp is taken from --millis, --rfc3339 or, by default, the system clock.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.codec(cmd, &cf)
			if err != nil {
				return err
			}

			logger := a.logger(cmd)
			if sequence > snowflake.MaxSequence {
				logger.Warn().
					Uint16(pkglog.FieldSequence, sequence).
					Msgf("sequence exceeds %d and is masked to 12 bits", snowflake.MaxSequence)
			}

			var id snowflake.ID
			switch {
			case cmd.Flags().Changed("millis"):
				id, err = g.FromUnixMillis(millis, sequence)
			case cmd.Flags().Changed("rfc3339"):
				id, err = g.FromRFC3339(rfc3339, sequence)
			case cmd.Flags().Changed("now") && !useNow:
				return fmt.Errorf("--now=false needs --millis or --rfc3339 as the timestamp source")
			default:
				id, err = g.Now(sequence)
			}
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			logger.Debug().
				Uint16(pkglog.FieldMachineID, g.MachineID()).
				Time(pkglog.FieldEpoch, g.Epoch()).
				Stringer("id", id).
				Msg("encoded")

			if asJSON {
				ts, machineID, seq := g.Decode(id)
				return writeJSON(cmd.OutOrStdout(), newDecoded(id, ts, machineID, seq, g.Epoch()))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cf.register(cmd)
	cmd.Flags().Uint64Var(&millis, "millis", 0, "Timestamp in milliseconds since the Unix epoch")
	cmd.Flags().StringVar(&rfc3339, "rfc3339", "", "Timestamp in RFC 3339 format")
	cmd.Flags().BoolVar(&useNow, "now", false, "Use the system clock (default when no other source is given)")
	cmd.Flags().Uint16Var(&sequence, "sequence", 0, "Sequence number 0-4095; higher values are masked")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ID and its components as JSON")
	cmd.MarkFlagsMutuallyExclusive("millis", "rfc3339", "now")
	return cmd
}

// decoded is the JSON shape of an ID and its components.
type decoded struct {
	ID        snowflake.ID `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	MachineID uint16       `json:"machine_id"`
	Sequence  uint16       `json:"sequence"`
	Epoch     time.Time    `json:"epoch"`
}

func newDecoded(id snowflake.ID, ts time.Time, machineID, sequence uint16, epoch time.Time) decoded {
	return decoded{
		ID:        id,
		Timestamp: ts,
		MachineID: machineID,
		Sequence:  sequence,
		Epoch:     epoch.UTC(),
	}
}
