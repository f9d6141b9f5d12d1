// Package diagram maintains the combinatorial model of a planar link
// projection: vertices, directed arrows between them, and the crossings
// where arrow segments properly intersect.
//
// Entities are stored in a central arena and addressed by opaque integer
// handles, so removing an entity never leaves dangling references and
// lookup by handle is O(1). The zero handle means "none".
//
// The package enforces the structural invariants of a link projection:
// every vertex has at most one incoming and one outgoing arrow, and the
// crossing set always equals exactly the set of properly intersecting
// arrow pairs after each completed mutation (see detect.go).
//
// Diagram is not safe for concurrent use; the editing model is strictly
// single-threaded and synchronous.
package diagram

import (
	"errors"
	"slices"

	"github.com/skaares/linkpad/pkg/geom"
)

var (
	// ErrUnknownVertex is returned when an operation targets a vertex
	// handle that is not present in the diagram. Callers treat this as a
	// structural inconsistency: the gesture is aborted, not retried.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrUnknownArrow is returned when an operation targets an arrow
	// handle that is not present in the diagram.
	ErrUnknownArrow = errors.New("unknown arrow")

	// ErrDegreeBound is returned by [Diagram.AddArrow] and
	// [Diagram.Swallow] when the operation would give a vertex a second
	// incoming or a second outgoing arrow. Components are paths or
	// cycles, never branching.
	ErrDegreeBound = errors.New("vertex already has an arrow in that direction")

	// ErrVertexInUse is returned by [Diagram.RemoveVertex] when the
	// vertex still has an adjoining arrow. Arrows must be removed or
	// reattached first.
	ErrVertexInUse = errors.New("vertex still has adjoining arrows")
)

// VertexID is an opaque handle to a vertex. Zero means "no vertex".
type VertexID int

// ArrowID is an opaque handle to an arrow. Zero means "no arrow".
type ArrowID int

// Tolerances holds the distances that define "too close" for hit testing
// and genericity checks, in canvas units.
type Tolerances struct {
	// VertexRadius is the hit radius of a vertex and the exclusion zone
	// around vertices for proper intersections.
	VertexRadius float64
	// ArrowRadius is how close a point may come to an arrow segment
	// before counting as "on" it.
	ArrowRadius float64
	// VertexMargin widens the arrow proximity test used by the
	// generic-vertex check, so a vertex dropped next to a strand leaves
	// room to draw through the gap.
	VertexMargin float64
}

// DefaultTolerances returns the stock tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{VertexRadius: 8, ArrowRadius: 12, VertexMargin: 2}
}

// Vertex is a corner of the piecewise-linear projection. At most one
// arrow enters and at most one leaves, so following Out links traces a
// component.
type Vertex struct {
	ID     VertexID
	Pos    geom.Point
	Color  string
	In     ArrowID // incoming arrow, 0 if none
	Out    ArrowID // outgoing arrow, 0 if none
	Frozen bool    // excluded from proximity checks during a drag
}

// IsEndpoint reports whether the vertex is missing an incoming or an
// outgoing arrow, i.e. it is the free end of an open component.
func (v *Vertex) IsEndpoint() bool { return v.In == 0 || v.Out == 0 }

// IsIsolated reports whether the vertex has no arrows at all.
func (v *Vertex) IsIsolated() bool { return v.In == 0 && v.Out == 0 }

// Arrow is a directed straight segment between two vertices. End may be
// zero only for the single in-flight arrow while the editor is in its
// drawing state; such an arrow is skipped by the detector and the
// genericity checks.
type Arrow struct {
	ID     ArrowID
	Start  VertexID
	End    VertexID
	Color  string
	Frozen bool

	dir    geom.Point // cached direction vector
	hasDir bool
}

// Crossing records a proper intersection of two arrows, with one
// designated as passing over the other. Hit1 and Hit2 are label slots
// assigned by an external code generator and never interpreted here.
type Crossing struct {
	Over    ArrowID
	Under   ArrowID
	Pos     geom.Point
	Flipped bool // orientation marker consumed by the alternating tool
	Virtual bool // crossing declared non-geometric (diagrams on a surface)
	Hit1    int
	Hit2    int
}

// Involves reports whether the crossing references the given arrow.
func (c *Crossing) Involves(a ArrowID) bool { return c.Over == a || c.Under == a }

// SamePair reports whether the crossing joins the same unordered pair.
func (c *Crossing) SamePair(a, b ArrowID) bool {
	return (c.Over == a && c.Under == b) || (c.Over == b && c.Under == a)
}

// Reverse swaps the over and under strands and toggles the Flipped
// marker.
func (c *Crossing) Reverse() {
	c.Over, c.Under = c.Under, c.Over
	c.Flipped = !c.Flipped
}

// Diagram is the arena holding all entities of one link projection.
// The zero value is not usable - use New.
type Diagram struct {
	vertices    map[VertexID]*Vertex
	arrows      map[ArrowID]*Arrow
	vertexOrder []VertexID
	arrowOrder  []ArrowID
	crossings   []*Crossing
	tol         Tolerances

	underMode bool // reverses the default over/under on new crossings
	r3Armed   bool // one-shot inversion for the next detector pass

	nextVertex VertexID
	nextArrow  ArrowID
}

// New creates an empty diagram with the given tolerances. A zero
// Tolerances value is replaced by [DefaultTolerances].
func New(tol Tolerances) *Diagram {
	if tol == (Tolerances{}) {
		tol = DefaultTolerances()
	}
	return &Diagram{
		vertices: make(map[VertexID]*Vertex),
		arrows:   make(map[ArrowID]*Arrow),
		tol:      tol,
	}
}

// Tolerances returns the diagram's tolerance settings.
func (d *Diagram) Tolerances() Tolerances { return d.tol }

// SetUnderMode sets the global flag that reverses the default over/under
// assignment for crossings created by the detector.
func (d *Diagram) SetUnderMode(on bool) { d.underMode = on }

// UnderMode reports the current default-reversal flag.
func (d *Diagram) UnderMode() bool { return d.underMode }

// ArmR3Helper inverts the over/under default for the next detector pass
// only. Used once after a Reidemeister III slide so the redrawn strand
// keeps its original role.
func (d *Diagram) ArmR3Helper() { d.r3Armed = true }

// AddVertex inserts a vertex at p and returns it.
func (d *Diagram) AddVertex(p geom.Point, color string) *Vertex {
	d.nextVertex++
	v := &Vertex{ID: d.nextVertex, Pos: p, Color: color}
	d.vertices[v.ID] = v
	d.vertexOrder = append(d.vertexOrder, v.ID)
	return v
}

// RemoveVertex deletes an isolated vertex. Returns ErrVertexInUse if the
// vertex still has an adjoining arrow, or ErrUnknownVertex.
func (d *Diagram) RemoveVertex(id VertexID) error {
	v, ok := d.vertices[id]
	if !ok {
		return ErrUnknownVertex
	}
	if !v.IsIsolated() {
		return ErrVertexInUse
	}
	delete(d.vertices, id)
	d.vertexOrder = slices.DeleteFunc(d.vertexOrder, func(x VertexID) bool { return x == id })
	return nil
}

// MoveVertex relocates a vertex and invalidates the direction caches of
// its adjoining arrows. It performs no validation; callers run the
// genericity checks and the detector afterwards.
func (d *Diagram) MoveVertex(id VertexID, p geom.Point) error {
	v, ok := d.vertices[id]
	if !ok {
		return ErrUnknownVertex
	}
	v.Pos = p
	if a, ok := d.arrows[v.In]; ok {
		a.invalidate()
	}
	if a, ok := d.arrows[v.Out]; ok {
		a.invalidate()
	}
	return nil
}

// AddArrow inserts a directed arrow from start to end and wires the
// endpoint references. Returns ErrUnknownVertex for missing endpoints or
// ErrDegreeBound if either slot is taken.
func (d *Diagram) AddArrow(start, end VertexID, color string) (*Arrow, error) {
	s, ok := d.vertices[start]
	if !ok {
		return nil, ErrUnknownVertex
	}
	e, ok := d.vertices[end]
	if !ok {
		return nil, ErrUnknownVertex
	}
	if s.Out != 0 || e.In != 0 {
		return nil, ErrDegreeBound
	}
	d.nextArrow++
	a := &Arrow{ID: d.nextArrow, Start: start, End: end, Color: color}
	d.arrows[a.ID] = a
	d.arrowOrder = append(d.arrowOrder, a.ID)
	s.Out = a.ID
	e.In = a.ID
	return a, nil
}

// AddPendingArrow inserts an arrow with a start vertex but no end yet.
// Only the editor's drawing state uses this; the arrow is invisible to
// the detector and the genericity checks until an end is attached.
func (d *Diagram) AddPendingArrow(start VertexID, color string) (*Arrow, error) {
	s, ok := d.vertices[start]
	if !ok {
		return nil, ErrUnknownVertex
	}
	if s.Out != 0 {
		return nil, ErrDegreeBound
	}
	d.nextArrow++
	a := &Arrow{ID: d.nextArrow, Start: start, Color: color}
	d.arrows[a.ID] = a
	d.arrowOrder = append(d.arrowOrder, a.ID)
	s.Out = a.ID
	return a, nil
}

// AttachEnd connects a pending arrow to its end vertex.
func (d *Diagram) AttachEnd(id ArrowID, end VertexID) error {
	a, ok := d.arrows[id]
	if !ok {
		return ErrUnknownArrow
	}
	e, ok := d.vertices[end]
	if !ok {
		return ErrUnknownVertex
	}
	if a.End != 0 {
		return ErrDegreeBound
	}
	if e.In != 0 {
		return ErrDegreeBound
	}
	a.End = end
	a.invalidate()
	e.In = id
	return nil
}

// DetachEnd disconnects an arrow from its end vertex, returning it to
// the pending state and purging its crossings.
func (d *Diagram) DetachEnd(id ArrowID) error {
	a, ok := d.arrows[id]
	if !ok {
		return ErrUnknownArrow
	}
	if e, ok := d.vertices[a.End]; ok && e.In == id {
		e.In = 0
	}
	a.End = 0
	a.invalidate()
	d.purgeCrossings(id)
	return nil
}

// RemoveArrow deletes an arrow, clears both endpoint references, and
// purges every crossing that references it.
func (d *Diagram) RemoveArrow(id ArrowID) error {
	a, ok := d.arrows[id]
	if !ok {
		return ErrUnknownArrow
	}
	if s, ok := d.vertices[a.Start]; ok && s.Out == id {
		s.Out = 0
	}
	if e, ok := d.vertices[a.End]; ok && e.In == id {
		e.In = 0
	}
	delete(d.arrows, id)
	d.arrowOrder = slices.DeleteFunc(d.arrowOrder, func(x ArrowID) bool { return x == id })
	d.purgeCrossings(id)
	return nil
}

func (d *Diagram) purgeCrossings(id ArrowID) {
	d.crossings = slices.DeleteFunc(d.crossings, func(c *Crossing) bool { return c.Involves(id) })
}

// Vertex returns the vertex with the given handle.
func (d *Diagram) Vertex(id VertexID) (*Vertex, bool) {
	v, ok := d.vertices[id]
	return v, ok
}

// Arrow returns the arrow with the given handle.
func (d *Diagram) Arrow(id ArrowID) (*Arrow, bool) {
	a, ok := d.arrows[id]
	return a, ok
}

// Vertices returns all vertices in creation order. The slice is fresh
// but the pointers refer to the live entities.
func (d *Diagram) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(d.vertexOrder))
	for _, id := range d.vertexOrder {
		out = append(out, d.vertices[id])
	}
	return out
}

// Arrows returns all arrows in creation order.
func (d *Diagram) Arrows() []*Arrow {
	out := make([]*Arrow, 0, len(d.arrowOrder))
	for _, id := range d.arrowOrder {
		out = append(out, d.arrows[id])
	}
	return out
}

// Crossings returns the current crossing set. The slice is fresh but the
// pointers refer to the live entities.
func (d *Diagram) Crossings() []*Crossing {
	return slices.Clone(d.crossings)
}

// VertexCount returns the number of vertices.
func (d *Diagram) VertexCount() int { return len(d.vertices) }

// ArrowCount returns the number of arrows.
func (d *Diagram) ArrowCount() int { return len(d.arrows) }

// CrossingCount returns the number of crossings.
func (d *Diagram) CrossingCount() int { return len(d.crossings) }

// FindVertex returns the first vertex whose hit radius contains p, in
// creation order, or nil.
func (d *Diagram) FindVertex(p geom.Point) *Vertex {
	for _, id := range d.vertexOrder {
		v := d.vertices[id]
		if v.Pos.Dist(p) <= d.tol.VertexRadius {
			return v
		}
	}
	return nil
}

// FindCrossing returns the first crossing whose location lies within the
// vertex hit radius of p, or nil.
func (d *Diagram) FindCrossing(p geom.Point) *Crossing {
	for _, c := range d.crossings {
		if c.Pos.Dist(p) <= d.tol.VertexRadius {
			return c
		}
	}
	return nil
}

// FindArrow returns the first arrow passing within the arrow radius of
// p, excluding pending arrows, or nil.
func (d *Diagram) FindArrow(p geom.Point) *Arrow {
	for _, id := range d.arrowOrder {
		a := d.arrows[id]
		if a.End == 0 {
			continue
		}
		if d.tooClose(a, p, d.tol.ArrowRadius) {
			return a
		}
	}
	return nil
}

// tooClose reports whether p lies within tolerance of the arrow's
// segment, excluding the endpoints themselves.
func (d *Diagram) tooClose(a *Arrow, p geom.Point, tolerance float64) bool {
	s := d.vertices[a.Start]
	e := d.vertices[a.End]
	if s == nil || e == nil {
		return false
	}
	if s.Pos.Dist(p) <= d.tol.VertexRadius || e.Pos.Dist(p) <= d.tol.VertexRadius {
		return false
	}
	return geom.SegmentDist(p, s.Pos, e.Pos) < tolerance
}

// Vector returns the arrow's direction vector, computing and caching it
// on first use after an endpoint change.
func (d *Diagram) Vector(a *Arrow) geom.Point {
	if !a.hasDir {
		s, e := d.vertices[a.Start], d.vertices[a.End]
		if s == nil || e == nil {
			return geom.Point{}
		}
		a.dir = e.Pos.Sub(s.Pos)
		a.hasDir = true
	}
	return a.dir
}

func (a *Arrow) invalidate() { a.hasDir = false }

// Clone returns a deep copy of the diagram, used to capture rollback
// state before a tentative rewrite.
func (d *Diagram) Clone() *Diagram {
	out := &Diagram{
		vertices:    make(map[VertexID]*Vertex, len(d.vertices)),
		arrows:      make(map[ArrowID]*Arrow, len(d.arrows)),
		vertexOrder: slices.Clone(d.vertexOrder),
		arrowOrder:  slices.Clone(d.arrowOrder),
		crossings:   make([]*Crossing, len(d.crossings)),
		tol:         d.tol,
		underMode:   d.underMode,
		r3Armed:     d.r3Armed,
		nextVertex:  d.nextVertex,
		nextArrow:   d.nextArrow,
	}
	for id, v := range d.vertices {
		cp := *v
		out.vertices[id] = &cp
	}
	for id, a := range d.arrows {
		cp := *a
		out.arrows[id] = &cp
	}
	for i, c := range d.crossings {
		cp := *c
		out.crossings[i] = &cp
	}
	return out
}

// Restore overwrites the diagram's contents with a previously cloned
// snapshot. Handles issued before the snapshot remain valid.
func (d *Diagram) Restore(snap *Diagram) {
	restored := snap.Clone()
	*d = *restored
}
