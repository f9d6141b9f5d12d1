package diagram

import "github.com/skaares/linkpad/pkg/geom"

// ReversePath reverses the orientation of the component containing the
// given vertex. Every arrow swaps its endpoints and every vertex on the
// path swaps its in/out references. Crossings are untouched: the
// underlying segments do not move.
func (d *Diagram) ReversePath(id VertexID) error {
	comp, ok := d.ComponentOf(id)
	if !ok {
		if _, exists := d.vertices[id]; !exists {
			return ErrUnknownVertex
		}
		return nil // isolated vertex, nothing to reverse
	}
	for _, vID := range d.ComponentVertices(comp) {
		v := d.vertices[vID]
		v.In, v.Out = v.Out, v.In
	}
	for _, aID := range comp.Arrows {
		a := d.arrows[aID]
		a.Start, a.End = a.End, a.Start
		a.invalidate()
	}
	return nil
}

// Swallow merges the vertex eaten into survivor, splicing their
// components together. Both must be free endpoints; if the two chains
// run the same way the eaten one is reversed first. The merged component
// takes the survivor's color. The color displaced from the eaten
// component is returned so the caller can recycle it; it is empty when
// the merge closed a single component into a loop.
func (d *Diagram) Swallow(survivor, eaten VertexID) (string, error) {
	sv, ok := d.vertices[survivor]
	if !ok {
		return "", ErrUnknownVertex
	}
	ev, ok := d.vertices[eaten]
	if !ok {
		return "", ErrUnknownVertex
	}
	if survivor == eaten || !sv.IsEndpoint() || !ev.IsEndpoint() || ev.IsIsolated() {
		return "", ErrDegreeBound
	}

	sameComponent := false
	if comp, ok := d.ComponentOf(survivor); ok {
		other, _ := d.ComponentOf(eaten)
		if len(other.Arrows) > 0 && other.Arrows[0] == comp.Arrows[0] {
			sameComponent = true
		}
	}
	discarded := ev.Color

	// Align orientations so the eaten chain plugs into the survivor's
	// free slot. Two chain starts (or two ends) cannot splice directly.
	if !sameComponent {
		if (sv.In == 0 && ev.In == 0 && sv.Out != 0) || (sv.Out == 0 && ev.Out == 0 && sv.In != 0) {
			if err := d.ReversePath(eaten); err != nil {
				return "", err
			}
		}
	}
	if sv.In == 0 && ev.In != 0 {
		a := d.arrows[ev.In]
		a.End = survivor
		a.invalidate()
		sv.In = a.ID
		ev.In = 0
	}
	if sv.Out == 0 && ev.Out != 0 {
		a := d.arrows[ev.Out]
		a.Start = survivor
		a.invalidate()
		sv.Out = a.ID
		ev.Out = 0
	}
	if !ev.IsIsolated() {
		return "", ErrDegreeBound
	}
	if err := d.RemoveVertex(eaten); err != nil {
		return "", err
	}
	if comp, ok := d.ComponentOf(survivor); ok {
		d.RecolorComponent(comp, sv.Color)
	}
	if sameComponent {
		return "", nil
	}
	return discarded, nil
}

// SplitArrow replaces an arrow with two arrows meeting at a new vertex
// placed at p, which should lie on or near the arrow's segment. The
// halves inherit the arrow's color and their crossings are recomputed,
// so over/under choices on the split arrow revert to the default.
func (d *Diagram) SplitArrow(id ArrowID, p geom.Point) (*Vertex, error) {
	a, ok := d.arrows[id]
	if !ok || a.End == 0 {
		return nil, ErrUnknownArrow
	}
	start, end, color := a.Start, a.End, a.Color
	if err := d.RemoveArrow(id); err != nil {
		return nil, err
	}
	v := d.AddVertex(p, color)
	first, err := d.AddArrow(start, v.ID, color)
	if err != nil {
		return nil, err
	}
	second, err := d.AddArrow(v.ID, end, color)
	if err != nil {
		return nil, err
	}
	d.UpdateCrossings(first.ID)
	d.UpdateCrossings(second.ID)
	return v, nil
}

// RecolorComponent paints every arrow and vertex of the component.
func (d *Diagram) RecolorComponent(comp Component, color string) {
	for _, aID := range comp.Arrows {
		if a, ok := d.arrows[aID]; ok {
			a.Color = color
		}
	}
	for _, vID := range d.ComponentVertices(comp) {
		if v, ok := d.vertices[vID]; ok {
			v.Color = color
		}
	}
}

// Reflect reverses every crossing, turning the diagram into its mirror
// image.
func (d *Diagram) Reflect() {
	for _, c := range d.crossings {
		c.Reverse()
	}
}

// SetFrozen marks a vertex and its adjoining arrows as frozen, or
// thaws them. The editor freezes the dragged vertex so the genericity
// checks ignore the strand being moved.
func (d *Diagram) SetFrozen(id VertexID, frozen bool) error {
	v, ok := d.vertices[id]
	if !ok {
		return ErrUnknownVertex
	}
	v.Frozen = frozen
	if a, ok := d.arrows[v.In]; ok {
		a.Frozen = frozen
	}
	if a, ok := d.arrows[v.Out]; ok {
		a.Frozen = frozen
	}
	return nil
}
