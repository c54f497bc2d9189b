package main

import (
	"fmt"

	"github.com/hupe1980/gaugrid"
	"github.com/hupe1980/gaugrid/internal/blocked"
	"github.com/hupe1980/gaugrid/internal/gen"
	"github.com/hupe1980/gaugrid/order"
	"github.com/spf13/cobra"
)

// loadConfig reads the configuration file and applies any flags the user
// set explicitly on cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*gen.Config, error) {
	cfg, err := gen.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-l") {
		cfg.MaxL, _ = flags.GetInt("max-l")
	}
	if flags.Changed("target") {
		cfg.Target, _ = flags.GetString("target")
	}
	if flags.Changed("order") {
		cfg.CartesianOrder, _ = flags.GetString("order")
	}
	if flags.Changed("tile") {
		cfg.TileSize, _ = flags.GetInt("tile")
	}
	if flags.Changed("output") {
		cfg.Destination.Type = gen.DestLocal
		cfg.Destination.Path, _ = flags.GetString("output")
	}
	if flags.Changed("compress") {
		cfg.Compress, _ = flags.GetBool("compress")
	}
	return cfg, nil
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit blocked kernels for every degree up to max-l",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := gen.OpenStore(ctx, cfg.Destination)
			if err != nil {
				return err
			}
			m, err := gen.Publish(ctx, cfg, store, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d artifacts (%s, %s order, L<=%d)\n",
				len(m.Artifacts), m.Target, m.Convention, m.MaxL)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("max-l", 0, "highest angular momentum degree")
	f.String("target", "", "output dialect (c or go)")
	f.String("order", "", "Cartesian ordering convention (row or molden)")
	f.Int("tile", 0, "points per tile")
	f.StringP("output", "o", "", "write to this local directory")
	f.Bool("compress", false, "store artifacts zstd-compressed")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check stored artifacts against their manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := gen.OpenStore(ctx, cfg.Destination)
			if err != nil {
				return err
			}
			m, err := gen.Verify(ctx, cfg, store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d artifacts ok\n", len(m.Artifacts))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "read from this local directory")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		L      int
		conv   string
		target string
		tile   int
		header bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the kernel source for one degree",
		Long: `Print the kernel source for one degree.

Without --target the whole-array Go kernel used by the library is printed.
With --target c or --target go the blocked kernel is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := order.Parse(conv)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if target == "" {
				col := gaugrid.New(gaugrid.WithLogger(gaugrid.NewLogger(a.logger.Handler())))
				src, err := col.KernelSource(L, c)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, src)
				return err
			}

			cfg := gen.DefaultConfig()
			cfg.Target = target
			cfg.CartesianOrder = conv
			cfg.TileSize = tile
			g, err := cfg.Generator()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var art blocked.Artifact
			if header {
				art, err = g.HeaderSource(ctx, L)
			} else {
				art, err = g.Source(ctx, L, 0)
			}
			if err != nil {
				return err
			}
			_, err = out.Write(art.Source)
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&L, "l", 0, "angular momentum degree")
	f.StringVar(&conv, "order", string(order.Row), "Cartesian ordering convention (row or molden)")
	f.StringVar(&target, "target", "", "blocked kernel dialect (c or go)")
	f.IntVar(&tile, "tile", blocked.DefaultTileSize, "points per tile for blocked kernels")
	f.BoolVar(&header, "header", false, "print the C header for degrees 0..l instead")
	return cmd
}
