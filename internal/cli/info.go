package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/projection"
	"github.com/skaares/linkpad/pkg/settings"
)

// infoCommand creates the info command, which prints a summary of a
// saved diagram without opening the editor.
func (c *CLI) infoCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a saved diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings(configPath)
			if err != nil {
				return err
			}
			return runInfo(args[0], s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "settings file (default: XDG config dir)")

	return cmd
}

func runInfo(path string, s settings.Settings) error {
	d, err := projection.ReadFile(path, s.Tolerances())
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	printDetail("%s vertices, %s arrows, %s crossings",
		StyleNumber.Render(fmt.Sprint(d.VertexCount())),
		StyleNumber.Render(fmt.Sprint(d.ArrowCount())),
		StyleNumber.Render(fmt.Sprint(d.CrossingCount())))

	virtual := 0
	for _, c := range d.Crossings() {
		if c.Virtual {
			virtual++
		}
	}
	if virtual > 0 {
		printDetail("%d of the crossings are virtual", virtual)
	}

	for i, comp := range d.Components() {
		kind := "open strand"
		if comp.Closed {
			kind = "closed loop"
		}
		fmt.Printf("  %s %s, %s, %d arrows\n",
			StyleDim.Render(fmt.Sprintf("component %d:", i+1)),
			StyleValue.Render(kind),
			StyleValue.Render(comp.Color),
			len(comp.Arrows))
	}

	if v := firstViolation(d); v != nil {
		fmt.Println(StyleWarning.Render(
			fmt.Sprintf("! diagram is not generic near (%g, %g): %s", v.At.X, v.At.Y, v.Reason)))
	}

	return nil
}

// firstViolation scans every vertex and arrow for a genericity failure.
func firstViolation(d *diagram.Diagram) *diagram.Violation {
	for _, v := range d.Vertices() {
		if viol := d.GenericVertex(v.ID); viol != nil {
			return viol
		}
	}
	for _, a := range d.Arrows() {
		if viol := d.GenericArrow(a.ID); viol != nil {
			return viol
		}
	}
	return nil
}
