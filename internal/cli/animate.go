package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/render/sink"
)

// animateOpts holds the command-line flags for the animate command.
type animateOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // svg, png, pdf, json
	jitter  float64  // r
	width   float64  // w
	color   string
	dur     int    // total duration in milliseconds
	mode    string // 1/2/3 or a mode name
	seed    uint64 // 0 picks a random seed
	at      int    // snapshot time in milliseconds, -1 for an animated SVG / final frame
	pixels  int    // png width
	loop    bool
}

// animateCommand creates the animate command for rendering a drawing.
//
// Defaults come from the [animation] section of the config file; flags
// that are set explicitly win.
func (c *CLI) animateCommand() *cobra.Command {
	var formatsStr string
	opts := animateOpts{at: -1, pixels: sink.DefaultPixelWidth}

	cmd := &cobra.Command{
		Use:   "animate [file.svg|-]",
		Short: "Animate an SVG drawing as a hand-drawn sketch",
		Long: `Animate roughens every <path> of an SVG drawing into jittered strokes and
writes the result:

  svg   standalone animated SVG (CSS keyframes), or a still with --at
  png   raster frame at --at (default: fully drawn)
  pdf   fully drawn vector sketch
  json  stroke geometry and the animation schedule`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := cfg.Animation.Params()
			if err := opts.apply(cmd, &p); err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr)
			return runAnimate(cmd.Context(), args[0], p, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&opts.at, "at", opts.at, "render the frame at this time in ms (png, svg)")
	cmd.Flags().IntVar(&opts.pixels, "png-width", opts.pixels, "png width in pixels")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "repeat the svg animation forever")
	opts.register(cmd)

	return cmd
}

// register adds the animation control flags shared by animate and play.
func (o *animateOpts) register(cmd *cobra.Command) {
	def := playback.DefaultParams()
	cmd.Flags().Float64VarP(&o.jitter, "jitter", "r", def.Jitter, "roughness: max displacement per axis")
	cmd.Flags().Float64VarP(&o.width, "width", "w", def.Width, "base stroke width")
	cmd.Flags().StringVarP(&o.color, "color", "c", def.Color, "stroke color")
	cmd.Flags().IntVarP(&o.dur, "duration", "d", int(def.Duration.Milliseconds()), "total duration in milliseconds")
	cmd.Flags().StringVarP(&o.mode, "mode", "t", "1", "choreography: 1 simultaneous, 2 sequential, 3 cascading")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "random seed for reproducible strokes (0 = random)")
}

// apply overlays explicitly set flags on p.
func (o animateOpts) apply(cmd *cobra.Command, p *playback.Params) error {
	flags := cmd.Flags()
	if flags.Changed("jitter") {
		p.Jitter = o.jitter
	}
	if flags.Changed("width") {
		p.Width = o.width
	}
	if flags.Changed("color") {
		p.Color = o.color
	}
	if flags.Changed("duration") {
		p.Duration = time.Duration(o.dur) * time.Millisecond
	}
	if flags.Changed("mode") {
		m, err := choreo.ParseMode(o.mode)
		if err != nil {
			return err
		}
		p.Mode = m
	}
	return p.Validate()
}

// runAnimate builds the timeline for the file at path and writes every
// requested format.
func runAnimate(ctx context.Context, path string, p playback.Params, opts animateOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	source, err := readSource(path)
	if err != nil {
		return err
	}

	ctrl := newController(ctx, opts.seed)
	defer ctrl.Stop()

	tl, err := ctrl.Prepare(ctx, source, p)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	sc := tl.Scene()
	logger.Debug("planned", "summary", choreo.Describe(tl.Instructions(), p.Mode))

	if opts.at >= 0 {
		tl.Seek(time.Duration(opts.at) * time.Millisecond)
	} else {
		tl.Seek(tl.Duration())
	}

	var written []string
	for _, format := range opts.formats {
		var data []byte
		switch format {
		case FormatSVG:
			if opts.at >= 0 {
				data = sink.RenderSnapshotSVG(sc)
			} else {
				var svgOpts []sink.SVGOption
				if opts.loop {
					svgOpts = append(svgOpts, sink.WithLoop())
				}
				data = sink.RenderSVG(sc, tl.Instructions(), svgOpts...)
			}
		case FormatPNG:
			data, err = sink.RenderPNG(sc, sink.WithPixelWidth(opts.pixels))
		case FormatPDF:
			data, err = sink.RenderPDF(sc, sink.WithTitle(filepath.Base(path)))
		case FormatJSON:
			data, err = sink.RenderJSON(sc, tl.Instructions(), sink.WithJSONMode(p.Mode))
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg, png, pdf or json)", format)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}

		out := outputPath(path, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}

	prog.done(fmt.Sprintf("Rendered %d format(s)", len(written)))
	printSuccess("Animated %d paths as %d strokes (%s, %s)",
		len(sc.Groups), sc.StrokeCount(), p.Mode, tl.Duration().Round(time.Millisecond))
	for _, f := range written {
		printFile(f)
	}
	return nil
}

// newController creates a playback controller seeded for reproducible
// strokes when seed is non-zero.
func newController(ctx context.Context, seed uint64, opts ...playback.Option) *playback.Controller {
	opts = append([]playback.Option{playback.WithLogger(loggerFromContext(ctx))}, opts...)
	if seed != 0 {
		opts = append(opts, playback.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	return playback.New(opts...)
}

// readSource reads an SVG file, or stdin for "-".
func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// outputPath derives where a format is written. Without -o the input name
// gets a ".sketch" infix so the source is never overwritten.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		if input == "-" {
			base = "sketch"
		} else {
			base = strings.TrimSuffix(input, filepath.Ext(input)) + ".sketch"
		}
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + "." + format
}
