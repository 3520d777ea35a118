package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
	"github.com/weiawesome/wes-io-live/snowflake/pkg/snowflake"
)

// collisionReport summarises encoding count sequences at one millisecond.
type collisionReport struct {
	Issued     int `json:"issued"`
	Unique     int `json:"unique"`
	Collisions int `json:"collisions"`
	// FirstCollision is the first sequence that reproduced an earlier ID, or -1.
	FirstCollision int `json:"first_collision"`
}

func countCollisions(g *snowflake.Generator, at time.Time, count int) (collisionReport, []snowflake.ID, error) {
	report := collisionReport{Issued: count, FirstCollision: -1}
	ids := make([]snowflake.ID, 0, count)
	seen := make(map[snowflake.ID]struct{}, count)

	for seq := 0; seq < count; seq++ {
		id, err := g.Encode(at, uint16(seq))
		if err != nil {
			return report, nil, err
		}
		ids = append(ids, id)

		if _, dup := seen[id]; dup {
			report.Collisions++
			if report.FirstCollision < 0 {
				report.FirstCollision = seq
			}
			continue
		}
		seen[id] = struct{}{}
	}
	report.Unique = len(seen)
	return report, ids, nil
}

func (a *app) newCollisionsCommand() *cobra.Command {
	var (
		cf       codecFlags
		count    int
		printIDs bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "collisions",
		Short: "Encode sequences 0..count-1 at the current millisecond and count duplicates",
		Long: "Encode sequences 0..count-1 at the current millisecond and count duplicates.\n" +
			"Sequences wrap every 4096, so any count above 4096 collides.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > 1<<16 {
				return fmt.Errorf("--count must be between 1 and %d, got %d", 1<<16, count)
			}
			g, err := a.codec(cmd, &cf)
			if err != nil {
				return err
			}

			report, ids, err := countCollisions(g, time.Now(), count)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			a.logger(cmd).Debug().
				Uint16(pkglog.FieldMachineID, g.MachineID()).
				Int(pkglog.FieldCount, count).
				Int("collisions", report.Collisions).
				Msg("collision check finished")

			out := cmd.OutOrStdout()
			if printIDs {
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
			}
			if asJSON {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "unique ids: %d of %d\n", report.Unique, report.Issued)
			if report.Collisions > 0 {
				fmt.Fprintf(out, "collisions: %d (first at sequence %d)\n", report.Collisions, report.FirstCollision)
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", snowflake.MaxSequence+1, "Number of sequences to encode")
	cmd.Flags().BoolVar(&printIDs, "print", false, "Print every ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
