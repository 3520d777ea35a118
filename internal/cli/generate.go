package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weiawesome/wes-io-live/snowflake/internal/generator"
	pkglog "github.com/weiawesome/wes-io-live/snowflake/pkg/log"
)

func (a *app) getGenerator(name string) (generator.Generator, error) {
	kind, err := generator.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return a.registry.Get(kind)
}

func (a *app) newGenerateCommand() *cobra.Command {
	var (
		idType string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Issue new IDs from the system clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.getGenerator(idType)
			if err != nil {
				return err
			}

			ids, err := gen.GenerateBatch(count)
			if err != nil {
				return fmt.Errorf("failed to generate %s IDs: %w", gen.Kind(), err)
			}
			a.logger(cmd).Debug().
				Str(pkglog.FieldIDType, string(gen.Kind())).
				Int(pkglog.FieldCount, len(ids)).
				Msg("generated")

			for _, id := range ids {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&idType, "type", "t", string(generator.KindSnowflake), "ID type: snowflake|uuid|ulid|ksuid|nanoid|cuid2")
	cmd.Flags().IntVarP(&count, "count", "n", 1, fmt.Sprintf("Number of IDs, 1-%d", generator.MaxBatch))
	return cmd
}

func (a *app) newValidateCommand() *cobra.Command {
	var idType string

	cmd := &cobra.Command{
		Use:   "validate ID",
		Short: "Check that an ID is well formed for its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.getGenerator(idType)
			if err != nil {
				return err
			}

			if valid, reason := gen.Validate(args[0]); !valid {
				return fmt.Errorf("invalid %s: %s", gen.Kind(), reason)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}

	cmd.Flags().StringVarP(&idType, "type", "t", string(generator.KindSnowflake), "ID type: snowflake|uuid|ulid|ksuid|nanoid|cuid2")
	return cmd
}

func (a *app) newParseCommand() *cobra.Command {
	var idType string

	cmd := &cobra.Command{
		Use:   "parse ID",
		Short: "Print the fields carried by an ID as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.getGenerator(idType)
			if err != nil {
				return err
			}

			res, err := gen.Parse(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&idType, "type", "t", string(generator.KindSnowflake), "ID type: snowflake|uuid|ulid|ksuid|nanoid|cuid2")
	return cmd
}
