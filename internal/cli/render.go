package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backdrop/pkg/backdrop"
	"github.com/matzehuels/backdrop/pkg/cache"
	"github.com/matzehuels/backdrop/pkg/config"
	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/render"
)

const (
	defaultWidth  = 1280 // default snapshot viewport width
	defaultHeight = 720  // default snapshot viewport height
	defaultScale  = 2.0  // default PNG scale factor
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path, "-" for stdout
	format     string  // svg, png or pdf; inferred from output when empty
	width      int     // viewport width in pixels
	height     int     // viewport height in pixels
	count      int     // number of drawings, 0 = max_elements
	seed       uint64  // random seed for reproducible snapshots
	static     bool    // draw every stroke fully instead of animating
	scale      float64 // PNG scale factor
	background string  // optional background fill
	noCache    bool    // skip the conversion cache
}

// convertTTL bounds how long converted rasters stay in the cache.
const convertTTL = 7 * 24 * time.Hour

// renderCommand creates the render command, which writes a still or looping
// snapshot of a backdrop.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		output: "backdrop.svg",
		width:  defaultWidth,
		height: defaultHeight,
		scale:  defaultScale,
	}
	var overrides *configFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a backdrop snapshot to SVG, PNG or PDF",
		Long: `Render a batch of drawings as one standalone file. SVG output loops each
stroke reveal with a one second stagger unless --static is set. PNG and PDF
are always static and need rsvg-convert on PATH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(overrides)
			if err != nil {
				return err
			}
			seeded := cmd.Flags().Changed("seed")
			return c.runRender(cmd, cfg, opts, seeded)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, `output file ("-" for stdout)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, png, pdf (default from output extension)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "viewport width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "viewport height in pixels")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "number of drawings (default max-elements)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().BoolVar(&opts.static, "static", false, "draw strokes fully instead of animating")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (e.g. #111827)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "convert again even if a cached result exists")
	overrides = addConfigFlags(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, cfg config.Config, opts renderOpts, seeded bool) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", opts.width, opts.height)
	}
	if opts.background != "" {
		if err := berrors.ValidateAttributeValue(opts.background); err != nil {
			return err
		}
	}

	prog := newProgress(c.Logger)

	spawnOpts := []backdrop.Option{backdrop.WithLogger(c.Logger)}
	if seeded {
		spawnOpts = append(spawnOpts, backdrop.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	elems, err := backdrop.Batch(cfg, cfg.Library(), float64(opts.width), float64(opts.height), opts.count, spawnOpts...)
	if err != nil {
		return err
	}

	var snapOpts []render.SnapshotOption
	if opts.static || format != render.FormatSVG {
		snapOpts = append(snapOpts, render.WithStatic())
	}
	if opts.background != "" {
		snapOpts = append(snapOpts, render.WithBackground(opts.background))
	}
	data := render.Snapshot(backdrop.Items(elems), opts.width, opts.height, snapOpts...)

	if format != render.FormatSVG {
		data, err = c.convert(cmd, data, format, opts)
		if err != nil {
			return err
		}
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	prog.done(fmt.Sprintf("Rendered %d drawings", len(elems)))
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}

// resolveFormat picks the explicit format or infers it from the output name.
func resolveFormat(format, output string) (string, error) {
	if format != "" {
		return render.ParseFormat(format)
	}
	if ext := filepath.Ext(output); ext != "" && output != "-" {
		return render.ParseFormat(ext)
	}
	return render.FormatSVG, nil
}

// convert turns svg into format, reusing an earlier conversion of the same
// document when one is cached.
func (c *CLI) convert(cmd *cobra.Command, svg []byte, format string, opts renderOpts) ([]byte, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store := c.conversionCache(opts.noCache)
	defer store.Close()
	key := cache.Key("convert", format, opts.scale, cache.Hash(svg))

	if data, ok, err := store.Get(ctx, key); err != nil {
		c.Logger.Warn("read conversion cache", "err", err)
	} else if ok {
		c.Logger.Debug("conversion cache hit", "format", format)
		return data, nil
	}

	sp := newSpinner(ctx, cmd.ErrOrStderr(), "Converting to "+strings.ToUpper(format)+"...")
	sp.Start()
	data, err := render.Convert(ctx, svg, format, opts.scale)
	sp.Stop()
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, data, convertTTL); err != nil {
		c.Logger.Warn("write conversion cache", "err", err)
	}
	return data, nil
}

// conversionCache opens the on-disk cache, or a null cache when disabled or
// unavailable.
func (c *CLI) conversionCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := conversionDir()
	if err != nil {
		c.Logger.Debug("no cache directory", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("open conversion cache", "err", err)
		return cache.NewNullCache()
	}
	return fc
}
