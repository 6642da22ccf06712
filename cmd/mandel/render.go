package main

import (
	"fmt"
	"image"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajroetker/hwy-mandel/hwy/contrib/workerpool"
	"github.com/ajroetker/hwy-mandel/internal/config"
	"github.com/ajroetker/hwy-mandel/internal/imageio"
	"github.com/ajroetker/hwy-mandel/render"
)

type renderFlags struct {
	output string
	format string
}

func newRenderCmd() *cobra.Command {
	cfg, envErr := envConfig()
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to an image file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			img, err := renderImage(cmd, *cfg)
			if err != nil {
				return err
			}
			var format imageio.Format
			if flags.format != "" {
				if format, err = imageio.ParseFormat(flags.format); err != nil {
					return err
				}
			}
			if err := imageio.WriteFile(flags.output, img, format); err != nil {
				return fmt.Errorf("write %s: %w", flags.output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", flags.output, cfg.Width, cfg.Height)
			return nil
		},
	}

	cfg.BindFlags(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "mandel.png", "output file")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format, overrides the file extension")
	return cmd
}

// renderImage renders one frame of cfg through a Driver on an in-memory
// surface.
func renderImage(cmd *cobra.Command, cfg config.Config) (image.Image, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := render.NewRenderer(cfg.Options())
	if err != nil {
		return nil, err
	}
	pool := workerpool.New(cfg.Workers)
	defer pool.Close()

	surface := render.NewMemorySurface(cfg.Width, cfg.Height, 0)
	d, err := render.NewDriver(r, pool, surface, cfg.Viewport())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := d.Redraw(cmd.Context()); err != nil {
		return nil, err
	}
	render.Logger().Info("frame rendered",
		"width", cfg.Width,
		"height", cfg.Height,
		"lanes", r.Lanes(),
		"workers", pool.NumWorkers(),
		"elapsed", time.Since(start))
	return surface.Image(), nil
}
