package diagram

// Component is a maximal chain of arrows connected head to tail. Open
// components run from a free start to a free end; closed components are
// cycles.
type Component struct {
	Arrows []ArrowID
	Color  string
	Closed bool
}

// Components partitions the arrows into components, open ones first in
// creation order of their start vertex, then closed loops in creation
// order of their lowest arrow. Pending arrows are listed in the
// component of their start vertex.
func (d *Diagram) Components() []Component {
	visited := make(map[ArrowID]bool, len(d.arrows))
	var out []Component

	walk := func(first ArrowID) Component {
		comp := Component{Color: d.arrows[first].Color}
		for id := first; id != 0 && !visited[id]; {
			visited[id] = true
			comp.Arrows = append(comp.Arrows, id)
			end, ok := d.vertices[d.arrows[id].End]
			if !ok {
				break
			}
			id = end.Out
		}
		last := d.arrows[comp.Arrows[len(comp.Arrows)-1]]
		comp.Closed = last.End != 0 && d.vertices[last.End].Out == first
		return comp
	}

	for _, vID := range d.vertexOrder {
		v := d.vertices[vID]
		if v.In == 0 && v.Out != 0 {
			out = append(out, walk(v.Out))
		}
	}
	for _, aID := range d.arrowOrder {
		if !visited[aID] {
			out = append(out, walk(aID))
		}
	}
	return out
}

// ComponentOf returns the component containing the given vertex, walking
// backwards from the vertex to the chain start first. The second return
// is false for an isolated vertex.
func (d *Diagram) ComponentOf(id VertexID) (Component, bool) {
	v, ok := d.vertices[id]
	if !ok || v.IsIsolated() {
		return Component{}, false
	}
	start := v
	for i := 0; i <= len(d.arrows); i++ {
		in, ok := d.arrows[start.In]
		if !ok {
			break
		}
		prev := d.vertices[in.Start]
		if prev == v {
			break // closed loop, start anywhere
		}
		start = prev
	}
	first := start.Out
	if first == 0 {
		first = start.In // vertex is the closed end of a single pending chain
	}
	comp := Component{Color: d.arrows[first].Color}
	for aID := first; aID != 0; {
		comp.Arrows = append(comp.Arrows, aID)
		end, ok := d.vertices[d.arrows[aID].End]
		if !ok {
			break
		}
		aID = end.Out
		if aID == first {
			comp.Closed = true
			break
		}
	}
	return comp, true
}

// ComponentVertices returns the vertices of a component in traversal
// order. For an open component this includes both free ends; for a
// closed one each vertex appears once.
func (d *Diagram) ComponentVertices(comp Component) []VertexID {
	if len(comp.Arrows) == 0 {
		return nil
	}
	out := []VertexID{d.arrows[comp.Arrows[0]].Start}
	for _, aID := range comp.Arrows {
		end := d.arrows[aID].End
		if end == 0 {
			break
		}
		if comp.Closed && end == out[0] {
			break
		}
		out = append(out, end)
	}
	return out
}
