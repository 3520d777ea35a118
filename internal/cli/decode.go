package cli

import (
	"github.com/spf13/cobra"

	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

func (a *app) newDecodeCommand() *cobra.Command {
	var (
		epoch  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "decode ID",
		Short: "Unpack an ID into timestamp, machine ID and sequence",
		Long: "Unpack an ID into timestamp, machine ID and sequence.\n" +
			"The epoch must match the one the ID was encoded with; a different epoch shifts the timestamp.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := snowflake.ParseID(args[0])
			if err != nil {
				return err
			}

			e := a.cfg.Epoch()
			if cmd.Flags().Changed("epoch") {
				if e, err = snowflake.ParseEpoch(epoch); err != nil {
					return err
				}
			}

			ts, machineID, seq := snowflake.DecodeWithEpoch(id, e)
			out := newDecoded(id, ts, machineID, seq, e.Time())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeDecoded(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&epoch, "epoch", "", "Epoch: unix|discord|RFC3339|unix ms (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
