package moves

import (
	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
)

// R1 removes a kink: a crossing of a strand with itself whose loop
// carries no other crossing. The loop is cut out and replaced by two
// arrows meeting at a fresh vertex where the crossing was, so the
// strand keeps running through that location.
//
// The diagram is untouched on any failure.
func R1(d *diagram.Diagram, c *diagram.Crossing) error {
	if c == nil || !hasCrossing(d, c) {
		return errors.New(errors.ErrCodeUnsupportedConfig, "no such crossing in the diagram")
	}

	// The kink is the side of the component that runs from one strand
	// of the crossing back to the other. Prefer lifting the under side,
	// matching how a kink is usually untwisted.
	underLoop := pathForward(d, c.Under, c.Over)
	overLoop := pathForward(d, c.Over, c.Under)
	var loop []diagram.ArrowID
	switch {
	case underLoop != nil && crossingFreeExcept(d, underLoop, c):
		loop = underLoop
	case overLoop != nil && crossingFreeExcept(d, overLoop, c):
		loop = overLoop
	case underLoop == nil && overLoop == nil:
		return errors.New(errors.ErrCodeUnsupportedConfig, "crossing is not a kink on a single strand")
	default:
		return errors.New(errors.ErrCodeUnsupportedConfig, "kink loop carries other crossings")
	}

	over, ok := d.Arrow(c.Over)
	if !ok {
		return errors.New(errors.ErrCodeStructuralInconsistency, "crossing references a missing arrow")
	}
	color := over.Color
	pos := c.Pos
	before := d.CrossingCount()
	snap := d.Clone()

	start, end := removePath(d, loop)
	v := d.AddVertex(pos, color)
	first, err := d.AddArrow(start, v.ID, color)
	if err == nil {
		var second *diagram.Arrow
		second, err = d.AddArrow(v.ID, end, color)
		if err == nil {
			d.UpdateCrossings(first.ID)
			d.UpdateCrossings(second.ID)
			if d.CrossingCount() != before-1 ||
				d.GenericVertex(v.ID) != nil ||
				d.GenericArrow(first.ID) != nil ||
				d.GenericArrow(second.ID) != nil ||
				!d.CheckConsistency() {
				err = errors.New(errors.ErrCodeUnsupportedConfig, "untwisting the kink would not leave a clean diagram")
			}
		}
	}
	if err != nil {
		d.Restore(snap)
		return err
	}
	return nil
}
