package cli

import (
	"fmt"

	"planets-mapgen/internal/galaxy"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type generateFlags struct {
	Name        string
	Count       int
	Seed        int64
	Radius      float64
	CentralStar bool
	Format      string
}

func newGenerateCommand(deps Dependencies) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Place a cloud of star systems and print it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			if deps.Galaxies == nil {
				return fmt.Errorf("galaxy generator is not configured")
			}

			req := flags.request(cmd.Flags())

			generated, err := deps.Galaxies.Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			return renderGalaxy(cmd.OutOrStdout(), generated, format)
		},
	}

	cmd.Flags().StringVar(&flags.Name, "name", "", "Galaxy name; defaults to the configured name.")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", 0, "Number of star systems to place.")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "Random seed; 0 seeds from the clock.")
	cmd.Flags().Float64Var(&flags.Radius, "radius", 0, "Universe radius.")
	cmd.Flags().BoolVar(&flags.CentralStar, "central-star", false, "Push a central star into every system.")
	cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")

	return cmd
}

// request overrides only the flags the user actually set.
func (f *generateFlags) request(set *pflag.FlagSet) galaxy.GenerateRequest {
	req := galaxy.GenerateRequest{Name: f.Name}
	set.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "count":
			req.SystemCount = &f.Count
		case "seed":
			req.Seed = &f.Seed
		case "radius":
			req.UniverseRadius = &f.Radius
		case "central-star":
			req.CentralStar = &f.CentralStar
		}
	})
	return req
}
