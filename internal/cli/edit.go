package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/display"
	"github.com/skaares/linkpad/pkg/editor"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/palette"
	"github.com/skaares/linkpad/pkg/projection"
	"github.com/skaares/linkpad/pkg/settings"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	config string // settings file path
	locked bool   // start in lock mode
}

// editCommand creates the edit command, which opens the interactive
// diagram editor. The file is created on the first save if it does not
// exist yet.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a diagram in the interactive editor",
		Long: `Open a diagram in the interactive terminal editor.

Move the cursor with the arrow keys (shift for fine steps) and press
space to click. Clicking empty canvas starts a strand; clicking a
crossing swaps which strand is on top. The v/u/1/2/3 keys switch the
click mode, t toggles lock mode, s saves, and q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings(opts.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("locked") {
				s.Locked = opts.locked
			}
			return c.runEdit(cmd.Context(), args[0], s)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "settings file (default: XDG config dir)")
	cmd.Flags().BoolVar(&opts.locked, "locked", false, "start in lock mode")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, s settings.Settings) error {
	d, err := projection.ReadFile(path, s.Tolerances())
	if err != nil {
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			return err
		}
		d = diagram.New(s.Tolerances())
	}

	pal := palette.New(s.Palette)
	for _, comp := range d.Components() {
		pal.Claim(comp.Color)
	}

	ed := editor.New(d, pal,
		editor.WithLogger(c.Logger),
		editor.WithNudgeDebounce(s.NudgeDebounce()))
	ed.SetLocked(s.Locked)

	m := newEditModel(ed, path)
	display.Register(m.events)
	defer display.Register(nil)

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run editor")
	}

	if fm, ok := final.(*editModel); ok && fm.dirty {
		c.Logger.Warnf("Unsaved changes in %s were discarded", path)
	}
	return nil
}
