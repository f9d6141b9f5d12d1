package diagram

import (
	"testing"

	"github.com/skaares/linkpad/pkg/geom"
)

// chain builds an open polyline through the given points, one color.
func chain(t *testing.T, d *Diagram, color string, pts ...geom.Point) ([]*Vertex, []*Arrow) {
	t.Helper()
	var vs []*Vertex
	for _, p := range pts {
		vs = append(vs, d.AddVertex(p, color))
	}
	var as []*Arrow
	for i := 1; i < len(vs); i++ {
		a, err := d.AddArrow(vs[i-1].ID, vs[i].ID, color)
		if err != nil {
			t.Fatalf("AddArrow: %v", err)
		}
		d.UpdateCrossings(a.ID)
		as = append(as, a)
	}
	return vs, as
}

func TestDegreeBound(t *testing.T) {
	d := New(Tolerances{})
	vs, _ := chain(t, d, "#e00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	w := d.AddVertex(geom.Point{X: 200, Y: 0}, "#e00")

	if _, err := d.AddArrow(vs[0].ID, w.ID, "#e00"); err != ErrDegreeBound {
		t.Errorf("second outgoing arrow: err = %v, want ErrDegreeBound", err)
	}
	if _, err := d.AddArrow(w.ID, vs[1].ID, "#e00"); err != ErrDegreeBound {
		t.Errorf("second incoming arrow: err = %v, want ErrDegreeBound", err)
	}
	if _, err := d.AddArrow(w.ID, VertexID(999), "#e00"); err != ErrUnknownVertex {
		t.Errorf("missing endpoint: err = %v, want ErrUnknownVertex", err)
	}
}

func TestRemoveArrowClearsReferences(t *testing.T) {
	d := New(Tolerances{})
	vs, as := chain(t, d, "#e00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, geom.Point{X: 200, Y: 0})

	if err := d.RemoveArrow(as[0].ID); err != nil {
		t.Fatalf("RemoveArrow: %v", err)
	}
	if vs[0].Out != 0 || vs[1].In != 0 {
		t.Error("endpoint references not cleared")
	}
	if err := d.RemoveVertex(vs[1].ID); err != ErrVertexInUse {
		t.Errorf("vertex with remaining arrow: err = %v, want ErrVertexInUse", err)
	}
	if err := d.RemoveVertex(vs[0].ID); err != nil {
		t.Errorf("isolated vertex: %v", err)
	}
}

func TestRemoveArrowPurgesCrossings(t *testing.T) {
	d := New(Tolerances{})
	_, as := chain(t, d, "#e00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	chain(t, d, "#0e0",
		geom.Point{X: 50, Y: -50}, geom.Point{X: 50, Y: 50})

	if d.CrossingCount() != 1 {
		t.Fatalf("crossings = %d, want 1", d.CrossingCount())
	}
	if err := d.RemoveArrow(as[0].ID); err != nil {
		t.Fatalf("RemoveArrow: %v", err)
	}
	if d.CrossingCount() != 0 {
		t.Errorf("crossings after removal = %d, want 0", d.CrossingCount())
	}
}

func TestPendingArrowLifecycle(t *testing.T) {
	d := New(Tolerances{})
	v := d.AddVertex(geom.Point{X: 0, Y: 0}, "#e00")
	w := d.AddVertex(geom.Point{X: 100, Y: 0}, "#e00")

	a, err := d.AddPendingArrow(v.ID, "#e00")
	if err != nil {
		t.Fatalf("AddPendingArrow: %v", err)
	}
	if d.FindArrow(geom.Point{X: 50, Y: 0}) != nil {
		t.Error("pending arrow should be invisible to hit testing")
	}
	if err := d.AttachEnd(a.ID, w.ID); err != nil {
		t.Fatalf("AttachEnd: %v", err)
	}
	if w.In != a.ID || a.End != w.ID {
		t.Error("AttachEnd did not wire references")
	}
	if err := d.DetachEnd(a.ID); err != nil {
		t.Fatalf("DetachEnd: %v", err)
	}
	if w.In != 0 || a.End != 0 {
		t.Error("DetachEnd did not clear references")
	}
}

func TestFindHitTesting(t *testing.T) {
	d := New(Tolerances{})
	vs, _ := chain(t, d, "#e00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	chain(t, d, "#0e0",
		geom.Point{X: 50, Y: -50}, geom.Point{X: 50, Y: 50})

	if got := d.FindVertex(geom.Point{X: 3, Y: 4}); got == nil || got.ID != vs[0].ID {
		t.Error("FindVertex missed a vertex within the hit radius")
	}
	if d.FindVertex(geom.Point{X: 20, Y: 20}) != nil {
		t.Error("FindVertex hit empty space")
	}
	if got := d.FindArrow(geom.Point{X: 30, Y: 5}); got == nil {
		t.Error("FindArrow missed a nearby arrow")
	}
	if d.FindArrow(geom.Point{X: 3, Y: 4}) != nil {
		t.Error("FindArrow should exclude arrow endpoints")
	}
	if got := d.FindCrossing(geom.Point{X: 52, Y: 2}); got == nil {
		t.Error("FindCrossing missed the crossing")
	}
}

func TestCloneRestore(t *testing.T) {
	d := New(Tolerances{})
	vs, _ := chain(t, d, "#e00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	chain(t, d, "#0e0",
		geom.Point{X: 50, Y: -50}, geom.Point{X: 50, Y: 50})

	snap := d.Clone()
	if err := d.MoveVertex(vs[0].ID, geom.Point{X: -40, Y: -40}); err != nil {
		t.Fatal(err)
	}
	d.Crossings()[0].Reverse()
	d.AddVertex(geom.Point{X: 300, Y: 300}, "#00e")

	d.Restore(snap)
	if d.VertexCount() != 4 {
		t.Errorf("vertices after restore = %d, want 4", d.VertexCount())
	}
	v, _ := d.Vertex(vs[0].ID)
	if v.Pos != (geom.Point{X: 0, Y: 0}) {
		t.Errorf("vertex position not restored: %v", v.Pos)
	}
	if d.Crossings()[0].Flipped {
		t.Error("crossing state not restored")
	}
	// The snapshot must stay independent of further edits.
	d.AddVertex(geom.Point{X: 400, Y: 400}, "#00e")
	if snap.VertexCount() != 4 {
		t.Error("snapshot mutated by later edits")
	}
}
