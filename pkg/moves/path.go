// Package moves implements the three Reidemeister moves as
// detect-then-commit rewrites on a diagram. Each move validates its
// preconditions against the live diagram, rewrites tentatively, and
// verifies the result; a failed verification rolls the diagram back and
// reports UNSUPPORTED_CONFIGURATION, so a move either succeeds cleanly
// or leaves no trace.
package moves

import (
	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
)

// Role says on which level a strand runs through its crossings.
type Role int

const (
	RoleOver Role = iota
	RoleUnder
)

func (r Role) String() string {
	if r == RoleUnder {
		return "under"
	}
	return "over"
}

// pathForward collects the arrows from one arrow to another by
// following out links. Returns nil when to is not downstream of from.
func pathForward(d *diagram.Diagram, from, to diagram.ArrowID) []diagram.ArrowID {
	var out []diagram.ArrowID
	id := from
	for range d.ArrowCount() {
		out = append(out, id)
		if id == to {
			return out
		}
		a, ok := d.Arrow(id)
		if !ok {
			return nil
		}
		end, ok := d.Vertex(a.End)
		if !ok || end.Out == 0 || end.Out == from {
			return nil
		}
		id = end.Out
	}
	return nil
}

// PathBetween returns the arrows leading from one vertex forward to
// another along its component.
func PathBetween(d *diagram.Diagram, from, to diagram.VertexID) ([]diagram.ArrowID, error) {
	v, ok := d.Vertex(from)
	if !ok {
		return nil, errors.New(errors.ErrCodeStructuralInconsistency, "vertex %d does not exist", from)
	}
	if _, ok := d.Vertex(to); !ok {
		return nil, errors.New(errors.ErrCodeStructuralInconsistency, "vertex %d does not exist", to)
	}
	if v.Out == 0 {
		return nil, errors.New(errors.ErrCodeUnsupportedConfig, "vertex %d has no outgoing strand", from)
	}
	var out []diagram.ArrowID
	id := v.Out
	for range d.ArrowCount() {
		out = append(out, id)
		a, ok := d.Arrow(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeStructuralInconsistency, "arrow %d vanished mid-walk", id)
		}
		if a.End == to {
			return out, nil
		}
		end, ok := d.Vertex(a.End)
		if !ok || end.Out == 0 || end.Out == v.Out {
			break
		}
		id = end.Out
	}
	return nil, errors.New(errors.ErrCodeUnsupportedConfig, "no forward path between the marked vertices")
}

// strandRole determines whether the strand runs exclusively over or
// exclusively under through all crossings on its arrows. A strand that
// changes level cannot be slid or lifted in one move.
func strandRole(d *diagram.Diagram, path []diagram.ArrowID) (Role, error) {
	var over, under bool
	for _, id := range path {
		for _, c := range d.Crossings() {
			switch {
			case c.Over == id:
				over = true
			case c.Under == id:
				under = true
			}
		}
	}
	switch {
	case over && under:
		return RoleOver, errors.New(errors.ErrCodeUnsupportedConfig, "strand changes level along the marked path")
	case under:
		return RoleUnder, nil
	case over:
		return RoleOver, nil
	default:
		return RoleOver, errors.New(errors.ErrCodeUnsupportedConfig, "marked strand has no crossings")
	}
}

// crossingFreeExcept reports whether no crossing other than the allowed
// ones touches any arrow of the path.
func crossingFreeExcept(d *diagram.Diagram, path []diagram.ArrowID, allowed ...*diagram.Crossing) bool {
	for _, id := range path {
		for _, c := range d.Crossings() {
			if !c.Involves(id) {
				continue
			}
			ok := false
			for _, a := range allowed {
				if c == a {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
	}
	return true
}

// hasCrossing reports whether c is still part of the diagram.
func hasCrossing(d *diagram.Diagram, c *diagram.Crossing) bool {
	for _, x := range d.Crossings() {
		if x == c {
			return true
		}
	}
	return false
}

// removePath deletes the arrows of a path and the vertices strictly
// between its first start and last end. Returns the boundary vertices.
func removePath(d *diagram.Diagram, path []diagram.ArrowID) (start, end diagram.VertexID) {
	first, _ := d.Arrow(path[0])
	last, _ := d.Arrow(path[len(path)-1])
	start, end = first.Start, last.End
	var interior []diagram.VertexID
	for _, id := range path[:len(path)-1] {
		a, _ := d.Arrow(id)
		interior = append(interior, a.End)
	}
	for _, id := range path {
		d.RemoveArrow(id)
	}
	for _, vID := range interior {
		if vID != start && vID != end {
			d.RemoveVertex(vID)
		}
	}
	return start, end
}
