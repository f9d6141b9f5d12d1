package moves

import (
	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
)

// r2Config describes a liftable bigon: the lift path runs through both
// crossings on the same level and gets pulled clear; the stay path is
// the strand it is pulled off. first and second order the crossings
// along the lift path.
type r2Config struct {
	lift          []diagram.ArrowID
	stay          []diagram.ArrowID
	first, second *diagram.Crossing
	stayAtFirst   diagram.ArrowID
	stayAtSecond  diagram.ArrowID
}

// R2 removes a bigon: two crossings where the same strand passes over
// (or under) the other both times, with no other crossing on either
// strand between them. The doubly-crossing strand is rerouted through
// two fresh vertices placed beside the other strand, on its far side,
// so both crossings vanish.
//
// Both levels and both crossing orders are candidates; each is
// committed tentatively and verified, and a candidate that does not
// leave a clean diagram is rolled back before the next is tried. The
// diagram is untouched when R2 returns an error.
func R2(d *diagram.Diagram, c1, c2 *diagram.Crossing) error {
	if c1 == nil || c2 == nil || !hasCrossing(d, c1) || !hasCrossing(d, c2) {
		return errors.New(errors.ErrCodeUnsupportedConfig, "no such crossing in the diagram")
	}
	if c1 == c2 {
		return errors.New(errors.ErrCodeInvalidInput, "the same crossing was picked twice")
	}

	cfgs := findBigons(d, c1, c2)
	if len(cfgs) == 0 {
		return errors.New(errors.ErrCodeUnsupportedConfig, "crossings do not bound a clean bigon")
	}
	var lastErr error
	for _, cfg := range cfgs {
		if lastErr = liftBigon(d, cfg); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// findBigons collects every liftable configuration, over level before
// under level, each in both crossing orders.
func findBigons(d *diagram.Diagram, c1, c2 *diagram.Crossing) []*r2Config {
	try := func(first, second *diagram.Crossing, under bool) *r2Config {
		liftA, liftB := first.Over, second.Over
		stayA, stayB := first.Under, second.Under
		if under {
			liftA, liftB = first.Under, second.Under
			stayA, stayB = first.Over, second.Over
		}
		lift := pathForward(d, liftA, liftB)
		if lift == nil {
			return nil
		}
		stay := pathForward(d, stayA, stayB)
		if stay == nil {
			stay = pathForward(d, stayB, stayA)
		}
		if stay == nil {
			return nil
		}
		if !crossingFreeExcept(d, lift, first, second) || !crossingFreeExcept(d, stay, first, second) {
			return nil
		}
		return &r2Config{
			lift: lift, stay: stay,
			first: first, second: second,
			stayAtFirst: stayA, stayAtSecond: stayB,
		}
	}
	var out []*r2Config
	for _, under := range []bool{false, true} {
		if cfg := try(c1, c2, under); cfg != nil {
			out = append(out, cfg)
		}
		if cfg := try(c2, c1, under); cfg != nil {
			out = append(out, cfg)
		}
	}
	return out
}

// liftBigon commits one candidate and verifies the result, rolling the
// diagram back on failure.
func liftBigon(d *diagram.Diagram, cfg *r2Config) error {
	liftFirst, ok := d.Arrow(cfg.lift[0])
	if !ok {
		return errors.New(errors.ErrCodeStructuralInconsistency, "bigon references a missing arrow")
	}
	liftLast, _ := d.Arrow(cfg.lift[len(cfg.lift)-1])
	startPos := mustPos(d, liftFirst.Start)
	endPos := mustPos(d, liftLast.End)
	gap := 2 * d.Tolerances().ArrowRadius

	p1, err := displaced(d, cfg.first, cfg.stayAtFirst, startPos, gap)
	if err != nil {
		return err
	}
	p2, err := displaced(d, cfg.second, cfg.stayAtSecond, endPos, gap)
	if err != nil {
		return err
	}

	color := liftFirst.Color
	before := d.CrossingCount()
	snap := d.Clone()

	start, end := removePath(d, cfg.lift)
	w1 := d.AddVertex(p1, color)
	w2 := d.AddVertex(p2, color)
	arrows := make([]*diagram.Arrow, 0, 3)
	for _, pair := range [][2]diagram.VertexID{{start, w1.ID}, {w1.ID, w2.ID}, {w2.ID, end}} {
		a, aerr := d.AddArrow(pair[0], pair[1], color)
		if aerr != nil {
			err = aerr
			break
		}
		arrows = append(arrows, a)
	}
	if err == nil {
		for _, a := range arrows {
			d.UpdateCrossings(a.ID)
		}
		switch {
		case d.CrossingCount() != before-2 || !d.CheckConsistency():
			err = errors.New(errors.ErrCodeUnsupportedConfig, "lifting the strand would not remove both crossings")
		case d.GenericVertex(w1.ID) != nil || d.GenericVertex(w2.ID) != nil:
			err = errors.New(errors.ErrCodeUnsupportedConfig, "rerouted vertices land too close to the diagram")
		default:
			for _, a := range arrows {
				if d.GenericArrow(a.ID) != nil {
					err = errors.New(errors.ErrCodeUnsupportedConfig, "rerouted strand lands too close to the diagram")
					break
				}
			}
		}
	}
	if err != nil {
		d.Restore(snap)
		return err
	}
	return nil
}

// displaced returns the point beside the stay strand where a rerouted
// vertex goes: offset from the crossing along the strand's normal, on
// the same side as ref, which is the lift strand's entry or exit
// vertex. A ref on the strand's own line is degenerate.
func displaced(d *diagram.Diagram, c *diagram.Crossing, stay diagram.ArrowID, ref geom.Point, gap float64) (geom.Point, error) {
	a, ok := d.Arrow(stay)
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeStructuralInconsistency, "crossing references a missing arrow")
	}
	u0 := mustPos(d, a.Start)
	u1 := mustPos(d, a.End)
	hand := geom.SignedArea(u0, u1, ref)
	if hand == 0 {
		return geom.Point{}, errors.New(errors.ErrCodeUnsupportedConfig, "strand endpoint lies on the crossing line")
	}
	n := geom.UnitNormal(u0, u1)
	w := c.Pos.Add(n.X*gap, n.Y*gap)
	if geom.SignedArea(u0, u1, w)*hand < 0 {
		w = c.Pos.Add(-n.X*gap, -n.Y*gap)
	}
	return w, nil
}

func mustPos(d *diagram.Diagram, id diagram.VertexID) geom.Point {
	if v, ok := d.Vertex(id); ok {
		return v.Pos
	}
	return geom.Point{}
}
