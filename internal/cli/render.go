package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/export"
	"github.com/skaares/linkpad/pkg/projection"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path (derived from input if empty)
	format    string // "svg" or "dot"
	crossings bool   // mark crossings in the output
	config    string // settings file path
}

// renderCommand creates the render command, which turns a saved diagram
// into an SVG or DOT file.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, crossings: true}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a saved diagram to SVG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatSVG && opts.format != formatDOT {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q", opts.format)
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runRender(ctx, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with new extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.crossings, "crossings", opts.crossings, "mark crossings in the output")
	cmd.Flags().StringVar(&opts.config, "config", "", "settings file (default: XDG config dir)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	s, err := c.loadSettings(opts.config)
	if err != nil {
		return err
	}
	d, err := projection.ReadFile(path, s.Tolerances())
	if err != nil {
		return err
	}

	dot := export.ToDOT(d, export.Options{Crossings: opts.crossings})

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}

	var data []byte
	if opts.format == formatDOT {
		data = []byte(dot)
	} else {
		data, err = export.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}

	p.done(fmt.Sprintf("Rendered %d crossings to %s", d.CrossingCount(), out))
	printSuccess("wrote %s", out)
	return nil
}
