package diagram

import "github.com/skaares/linkpad/pkg/geom"

// Violation describes why a genericity check failed, with the location
// the caller can flag with a transient marker.
type Violation struct {
	At     geom.Point
	Reason string
}

// GenericVertex checks that the vertex keeps the diagram generic: it
// must not coincide with another vertex (within the vertex radius) and
// must stay clear of every arrow not terminating at it, by the arrow
// radius widened with the vertex margin. Frozen arrows, which adjoin the
// vertex being dragged, are skipped. Returns nil when the vertex is
// generic.
func (d *Diagram) GenericVertex(id VertexID) *Violation {
	v, ok := d.vertices[id]
	if !ok {
		return &Violation{Reason: "vertex does not exist"}
	}
	for _, otherID := range d.vertexOrder {
		if otherID == id {
			continue
		}
		other := d.vertices[otherID]
		if other.Pos.Dist(v.Pos) <= d.tol.VertexRadius {
			return &Violation{At: other.Pos, Reason: "vertices coincide"}
		}
	}
	margin := d.tol.ArrowRadius + d.tol.VertexMargin
	for _, aID := range d.arrowOrder {
		a := d.arrows[aID]
		if a.Frozen || a.End == 0 || a.Start == id || a.End == id {
			continue
		}
		s := d.vertices[a.Start].Pos
		e := d.vertices[a.End].Pos
		if geom.SegmentDist(v.Pos, s, e) < margin {
			return &Violation{At: v.Pos, Reason: "vertex too close to an arrow"}
		}
	}
	return nil
}

// GenericArrow checks that no foreign vertex and no crossing on other
// arrows lies within the arrow radius of the arrow's segment. Frozen
// vertices are skipped. Returns nil when the arrow is generic.
func (d *Diagram) GenericArrow(id ArrowID) *Violation {
	a, ok := d.arrows[id]
	if !ok || a.End == 0 {
		return &Violation{Reason: "arrow does not exist"}
	}
	s := d.vertices[a.Start].Pos
	e := d.vertices[a.End].Pos
	for _, vID := range d.vertexOrder {
		if vID == a.Start || vID == a.End {
			continue
		}
		v := d.vertices[vID]
		if v.Frozen {
			continue
		}
		if geom.SegmentDist(v.Pos, s, e) < d.tol.ArrowRadius {
			return &Violation{At: v.Pos, Reason: "arrow passes too close to a vertex"}
		}
	}
	for _, c := range d.crossings {
		if c.Involves(id) {
			continue
		}
		if geom.SegmentDist(c.Pos, s, e) < d.tol.ArrowRadius {
			return &Violation{At: c.Pos, Reason: "arrow passes too close to a crossing"}
		}
	}
	return nil
}
