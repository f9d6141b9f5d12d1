package diagram

import (
	"slices"

	"github.com/skaares/linkpad/pkg/geom"
)

// properIntersection returns the point where the segments of a and b
// properly cross. A proper crossing requires both intersection
// parameters strictly inside (0, 1) and the point to lie farther than
// the vertex radius from every vertex of the diagram. Pending arrows
// never intersect anything.
func (d *Diagram) properIntersection(a, b *Arrow) (geom.Point, bool) {
	if a.End == 0 || b.End == 0 {
		return geom.Point{}, false
	}
	a0 := d.vertices[a.Start].Pos
	a1 := d.vertices[a.End].Pos
	b0 := d.vertices[b.Start].Pos
	b1 := d.vertices[b.End].Pos
	s, t, ok := geom.SegmentParams(a0, a1, b0, b1)
	if !ok || s <= 0 || s >= 1 || t <= 0 || t >= 1 {
		return geom.Point{}, false
	}
	p := geom.Lerp(a0, a1, s)
	for _, id := range d.vertexOrder {
		if d.vertices[id].Pos.Dist(p) <= d.tol.VertexRadius {
			return geom.Point{}, false
		}
	}
	return p, true
}

func (d *Diagram) findCrossing(a, b ArrowID) *Crossing {
	for _, c := range d.crossings {
		if c.SamePair(a, b) {
			return c
		}
	}
	return nil
}

// UpdateCrossings reconciles the crossing set against the current
// geometry of one arrow. For every other arrow it compares the recorded
// crossing (if any) with the actual intersection:
//
//   - both present: the crossing is kept and its location updated, so
//     over/under choices and labels survive a drag;
//   - intersection without crossing: a crossing is created with the
//     argument arrow on top, unless under mode or an armed helper flag
//     reverses the default;
//   - crossing without intersection: the crossing is deleted, and if the
//     argument arrow was the over strand the former under arrow is
//     reported as damaged so the caller can repaint it whole.
//
// The returned slice lists the damaged arrows. The helper flag armed by
// [Diagram.ArmR3Helper] is consumed by this call whether or not any
// crossing was created.
func (d *Diagram) UpdateCrossings(id ArrowID) []ArrowID {
	this, ok := d.arrows[id]
	if !ok {
		return nil
	}
	invert := d.underMode
	if d.r3Armed {
		invert = !invert
		d.r3Armed = false
	}
	var damage []ArrowID
	for _, otherID := range d.arrowOrder {
		if otherID == id {
			continue
		}
		other := d.arrows[otherID]
		existing := d.findCrossing(id, otherID)
		p, hit := d.properIntersection(this, other)
		switch {
		case hit && existing != nil:
			existing.Pos = p
		case hit:
			over, under := id, otherID
			if invert {
				over, under = otherID, id
			}
			d.crossings = append(d.crossings, &Crossing{Over: over, Under: under, Pos: p})
		case existing != nil:
			if existing.Over == id {
				damage = append(damage, otherID)
			}
			d.crossings = slices.DeleteFunc(d.crossings, func(c *Crossing) bool { return c == existing })
		}
	}
	return damage
}

// RefreshAllCrossings runs the detector over every arrow, rebuilding the
// crossing set from geometry. Used after loading a document.
func (d *Diagram) RefreshAllCrossings() {
	for _, id := range d.arrowOrder {
		d.UpdateCrossings(id)
	}
}

// crossedArrow pairs an arrow with its intersection parameter along a
// reference arrow, for signature ordering.
type crossedArrow struct {
	id    ArrowID
	param float64
}

// CrossedArrows returns the arrows that properly intersect the given
// arrow, ordered by where along the arrow the intersection occurs. The
// ignore set excludes arrows from consideration, typically the other
// arrow adjoining a dragged vertex.
func (d *Diagram) CrossedArrows(id ArrowID, ignore ...ArrowID) []ArrowID {
	this, ok := d.arrows[id]
	if !ok || this.End == 0 {
		return nil
	}
	a0 := d.vertices[this.Start].Pos
	a1 := d.vertices[this.End].Pos
	var hits []crossedArrow
	for _, otherID := range d.arrowOrder {
		if otherID == id || slices.Contains(ignore, otherID) {
			continue
		}
		if _, ok := d.properIntersection(this, d.arrows[otherID]); !ok {
			continue
		}
		other := d.arrows[otherID]
		s, _, _ := geom.SegmentParams(a0, a1, d.vertices[other.Start].Pos, d.vertices[other.End].Pos)
		hits = append(hits, crossedArrow{otherID, s})
	}
	slices.SortFunc(hits, func(x, y crossedArrow) int {
		switch {
		case x.param < y.param:
			return -1
		case x.param > y.param:
			return 1
		default:
			return int(x.id - y.id)
		}
	})
	out := make([]ArrowID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

// CheckConsistency verifies that the crossing set equals exactly the set
// of proper intersections, with every crossing located at the true
// intersection point. It returns false on the first discrepancy. Tests
// and the tentative-commit paths of the Reidemeister moves use this.
func (d *Diagram) CheckConsistency() bool {
	seen := 0
	for i, aID := range d.arrowOrder {
		for _, bID := range d.arrowOrder[i+1:] {
			p, hit := d.properIntersection(d.arrows[aID], d.arrows[bID])
			c := d.findCrossing(aID, bID)
			if hit != (c != nil) {
				return false
			}
			if hit {
				if c.Pos.Dist(p) > 1e-6 {
					return false
				}
				seen++
			}
		}
	}
	return seen == len(d.crossings)
}
