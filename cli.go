package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"collage/layout"
)

func (a *App) makeCommand() *cobra.Command {
	opts := defaultOptions()
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Lay out a folder of images and write the collage",
		Example: `  collage make -i photos -o collage.png
  collage make -i photos --strategy organic --style chaotic --manifest layout.yaml
  collage make -i photos --config run.toml --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigFile != "" {
				if err := applyConfigFile(opts.ConfigFile, cmd.Flags()); err != nil {
					return err
				}
			}
			return a.makeCollage(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.InputDir, "input", "i", opts.InputDir, "directory with source images")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "collage image path, format from extension")
	f.StringVarP(&opts.Manifest, "manifest", "m", "", "also write the layout to this .json or .yaml file")
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "TOML file with flag defaults")
	f.BoolVar(&opts.IsFilesSort, "sort", opts.IsFilesSort, "natural filename order")
	f.IntVarP(&opts.Width, "width", "W", opts.Width, "canvas width")
	f.IntVarP(&opts.Height, "height", "H", opts.Height, "canvas height")
	f.StringVar(&opts.Background, "bg", opts.Background, `background: "transparent", "#rgb", "#rrggbb" or "r,g,b"`)
	f.StringVarP(&opts.Strategy, "strategy", "s", opts.Strategy, "layout strategy: rows or organic")
	f.IntVar(&opts.Rows, "rows", opts.Rows, "row count, 0 tries every count")
	f.IntVar(&opts.Iterations, "iterations", opts.Iterations, "random trials per row count")
	f.Float64Var(&opts.Jitter, "jitter", opts.Jitter, "positional jitter as a fraction of item size")
	f.Float64Var(&opts.MaxRotation, "max-rotation", opts.MaxRotation, "maximum rotation in degrees, 0 disables")
	f.Float64Var(&opts.Protected, "protected", opts.Protected, "fraction of each item that must stay visible")
	f.Float64Var(&opts.MaxOverlap, "max-overlap", opts.MaxOverlap, "overlap ceiling when growing into gaps")
	f.StringVar(&opts.Style, "style", opts.Style, "organic style: simple, organic or chaotic")
	f.BoolVar(&opts.Prescale, "prescale", opts.Prescale, "organic: size items to share the canvas")
	f.IntVar(&opts.MaxAttempts, "attempts", opts.MaxAttempts, "organic: position samples per item")
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed, 0 picks one")
	f.IntVar(&opts.Workers, "workers", 0, "parallel trials, 0 uses every CPU")
	f.DurationVar(&opts.Timeout, "timeout", 0, "stop searching after this long and keep the best layout so far")
	return cmd
}

func (a *App) makeCollage(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() | 1
	}
	cfg, err := opts.layoutConfig(a.logger)
	if err != nil {
		return err
	}

	start := time.Now()
	sources, err := a.readImageFiles(opts)
	if err != nil {
		return err
	}
	a.logger.Debug("decoded images", "count", len(sources), "elapsed", time.Since(start))

	searchCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	start = time.Now()
	res, err := layout.Layout(searchCtx, sourceItems(sources), cfg)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	a.logger.Info("layout done",
		"strategy", res.Strategy,
		"seed", res.Seed,
		"trials", res.Trials,
		"elapsed", time.Since(start))

	if res.Partial {
		printWarning(out, "search stopped after %d trials, keeping the best layout found", res.Trials)
	}
	for _, d := range res.Degraded {
		printWarning(out, "%s overlaps %.0f%% of its core after %d attempts", d.ID, d.Ratio*100, d.Attempts)
	}

	images := make([]image.Image, len(sources))
	for i, s := range sources {
		images[i] = s.Image
	}
	start = time.Now()
	img, err := CreateCollageImage(ctx, cfg.Width, cfg.Height, cfg.Background, res.Placements, images)
	if err != nil {
		return err
	}
	if err := saveImage(img, opts.Output); err != nil {
		return err
	}
	a.logger.Debug("collage composed", "elapsed", time.Since(start))

	printSuccess(out, "collage of %d images", len(res.Placements))
	printFile(out, "image", opts.Output)
	if opts.Manifest != "" {
		if err := writeManifest(newManifest(opts.Manifest, &cfg, res, sources), opts.Manifest); err != nil {
			return err
		}
		printFile(out, "manifest", opts.Manifest)
	}
	printStat(out, "seed", res.Seed)
	if res.Strategy == layout.Rows {
		printStat(out, "rows", res.Rows)
	}
	printStat(out, "coverage", fmt.Sprintf("%.1f%%", res.Coverage(cfg.Canvas())*100))
	return nil
}

func (a *App) renderCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "Render a collage from a saved layout manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), cmd, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "collage.png", "collage image path, format from extension")
	return cmd
}

func (a *App) render(ctx context.Context, cmd *cobra.Command, manifestPath, output string) error {
	m, err := readManifest(manifestPath)
	if err != nil {
		return err
	}
	bg, err := parseColor(m.Background)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", manifestPath, err)
	}
	sources, err := loadImages(m.sourcePaths(manifestPath))
	if err != nil {
		return err
	}
	images := make([]image.Image, len(sources))
	for i, s := range sources {
		images[i] = s.Image
	}
	a.logger.Debug("rendering manifest", "path", manifestPath, "placements", len(m.Placements))

	img, err := CreateCollageImage(ctx, m.Canvas.W, m.Canvas.H, bg, m.Placements, images)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("render %s: %w", manifestPath, err)
	}
	if err := saveImage(img, output); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "rendered %d placements", len(m.Placements))
	printFile(cmd.OutOrStdout(), "image", output)
	return nil
}
