package editor

import (
	"testing"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
	"github.com/skaares/linkpad/pkg/palette"
)

func newEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	return New(diagram.New(diagram.Tolerances{}), palette.New(nil), opts...)
}

// strand builds a polyline directly on the diagram, bypassing gestures.
func strand(t *testing.T, d *diagram.Diagram, color string, pts ...geom.Point) []*diagram.Vertex {
	t.Helper()
	var vs []*diagram.Vertex
	for _, p := range pts {
		vs = append(vs, d.AddVertex(p, color))
	}
	for i := 1; i < len(vs); i++ {
		a, err := d.AddArrow(vs[i-1].ID, vs[i].ID, color)
		if err != nil {
			t.Fatalf("AddArrow: %v", err)
		}
		d.UpdateCrossings(a.ID)
	}
	return vs
}

func click(t *testing.T, e *Editor, x, y float64) {
	t.Helper()
	if err := e.Click(geom.Point{X: x, Y: y}); err != nil {
		t.Fatalf("Click(%v, %v): %v", x, y, err)
	}
}

func TestStateTransitions(t *testing.T) {
	openStrand := func(t *testing.T, e *Editor) {
		strand(t, e.Diagram(), "#0a5c00",
			geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	}

	tests := []struct {
		name  string
		setup func(*testing.T, *Editor)
		act   func(*Editor) error
		want  State
	}{
		{
			name: "click on empty canvas starts drawing",
			act:  func(e *Editor) error { return e.Click(geom.Point{X: 10, Y: 10}) },
			want: StateDrawing,
		},
		{
			name: "click on an isolated vertex starts drawing",
			setup: func(t *testing.T, e *Editor) {
				e.Diagram().AddVertex(geom.Point{X: 10, Y: 10}, "#a10000")
			},
			act:  func(e *Editor) error { return e.Click(geom.Point{X: 10, Y: 10}) },
			want: StateDrawing,
		},
		{
			name:  "click on an endpoint starts dragging",
			setup: openStrand,
			act:   func(e *Editor) error { return e.Click(geom.Point{X: 100, Y: 0}) },
			want:  StateDragging,
		},
		{
			name:  "commit returns a drag to idle",
			setup: openStrand,
			act: func(e *Editor) error {
				if err := e.Click(geom.Point{X: 100, Y: 0}); err != nil {
					return err
				}
				return e.EndDrag(geom.Point{X: 100, Y: 50})
			},
			want: StateIdle,
		},
		{
			name:  "cancel returns a drag to idle",
			setup: openStrand,
			act: func(e *Editor) error {
				if err := e.Click(geom.Point{X: 100, Y: 0}); err != nil {
					return err
				}
				return e.CancelDrag()
			},
			want: StateIdle,
		},
		{
			name: "head click ends drawing",
			act: func(e *Editor) error {
				if err := e.Click(geom.Point{X: 10, Y: 10}); err != nil {
					return err
				}
				return e.Click(geom.Point{X: 10, Y: 10})
			},
			want: StateIdle,
		},
		{
			name:  "double click on an endpoint resumes drawing",
			setup: openStrand,
			act:   func(e *Editor) error { return e.DoubleClick(geom.Point{X: 100, Y: 0}) },
			want:  StateDrawing,
		},
		{
			name:  "shift click stays idle",
			setup: openStrand,
			act:   func(e *Editor) error { return e.ShiftClick(geom.Point{X: 50, Y: 0}) },
			want:  StateIdle,
		},
		{
			name:  "mode switch never changes state",
			setup: openStrand,
			act: func(e *Editor) error {
				if err := e.Click(geom.Point{X: 100, Y: 0}); err != nil {
					return err
				}
				e.SetMode(ModeUnder)
				return nil
			},
			want: StateDragging,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t)
			if tt.setup != nil {
				tt.setup(t, e)
			}
			if err := tt.act(e); err != nil {
				t.Fatal(err)
			}
			if e.State() != tt.want {
				t.Errorf("state = %v, want %v", e.State(), tt.want)
			}
		})
	}
}

func TestDrawStrand(t *testing.T) {
	e := newEditor(t)
	d := e.Diagram()

	click(t, e, 10, 10)
	if e.State() != StateDrawing {
		t.Fatalf("state = %v, want drawing", e.State())
	}
	click(t, e, 100, 10)
	click(t, e, 100, 110)
	if d.VertexCount() != 3 || d.ArrowCount() != 2 {
		t.Fatalf("counts = %d vertices, %d arrows", d.VertexCount(), d.ArrowCount())
	}

	// Click on the head ends the gesture and keeps the strand.
	click(t, e, 100, 110)
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
	if d.VertexCount() != 3 || d.ArrowCount() != 2 {
		t.Error("cancel must keep the committed strand")
	}
	comps := d.Components()
	if len(comps) != 1 || comps[0].Closed {
		t.Errorf("components = %+v", comps)
	}
}

func TestDrawCancelRemovesLoneVertex(t *testing.T) {
	e := newEditor(t)
	click(t, e, 10, 10)
	click(t, e, 10, 10) // cancel before any segment
	if e.State() != StateIdle || e.Diagram().VertexCount() != 0 {
		t.Error("a strand with no segments should vanish on cancel")
	}
	// Its color must be free again.
	if got := palette.New(nil).Next(); got != e.pal.Next() {
		t.Error("color not recycled")
	}
}

func TestDrawRejectsDegenerateStart(t *testing.T) {
	e := newEditor(t)
	strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})

	// Outside the arrow's hit radius, but inside the genericity margin.
	err := e.Click(geom.Point{X: 50, Y: 13})
	if !errors.Is(err, errors.ErrCodeGeometryDegenerate) {
		t.Fatalf("err = %v, want GEOMETRY_DEGENERATE", err)
	}
	if e.State() != StateIdle || e.Diagram().VertexCount() != 2 {
		t.Error("rejected start must leave the diagram untouched")
	}
}

func TestDrawRejectsDegenerateSegment(t *testing.T) {
	e := newEditor(t)
	strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 100}, geom.Point{X: 200, Y: 100})

	click(t, e, 10, 10)
	// The new vertex would land within the margin of the strand.
	err := e.Click(geom.Point{X: 100, Y: 90})
	if !errors.Is(err, errors.ErrCodeGeometryDegenerate) {
		t.Fatalf("err = %v, want GEOMETRY_DEGENERATE", err)
	}
	if e.State() != StateDrawing {
		t.Error("a rejected segment must keep the drawing alive")
	}
	if e.Diagram().VertexCount() != 3 {
		t.Error("tentative vertex not rolled back")
	}
	// Drawing elsewhere still works.
	click(t, e, 100, 10)
	if e.Diagram().ArrowCount() != 2 {
		t.Error("retry after rejection failed")
	}
}

func TestDeleteBackRetractsSegments(t *testing.T) {
	e := newEditor(t)
	click(t, e, 10, 10)
	click(t, e, 100, 10)
	click(t, e, 100, 110)

	if err := e.DeleteBack(); err != nil {
		t.Fatal(err)
	}
	if e.Diagram().VertexCount() != 2 || e.Diagram().ArrowCount() != 1 {
		t.Error("one segment should be retracted")
	}
	if e.State() != StateDrawing {
		t.Error("still one segment left, must stay drawing")
	}
	if err := e.DeleteBack(); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateIdle || e.Diagram().VertexCount() != 0 {
		t.Error("retracting the last segment should clear the strand")
	}
}

func TestJoinStrands(t *testing.T) {
	e := newEditor(t)
	d := e.Diagram()
	a := strand(t, d, "#660e7a",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})

	click(t, e, 300, 0)
	click(t, e, 200, 0)
	click(t, e, 100, 2) // lands on the other strand's free end

	if e.State() != StateIdle {
		t.Fatalf("state = %v, want idle", e.State())
	}
	comps := d.Components()
	if len(comps) != 1 || len(comps[0].Arrows) != 3 {
		t.Fatalf("components = %+v, want one merged strand", comps)
	}
	if a[0].Color == "#660e7a" {
		t.Error("absorbed strand must take the drawn strand's color")
	}
}

func TestJoinClosesLoop(t *testing.T) {
	e := newEditor(t)
	click(t, e, 0, 0)
	click(t, e, 100, 0)
	click(t, e, 50, 80)
	click(t, e, 2, 2) // back onto the first vertex

	if e.State() != StateIdle {
		t.Fatalf("state = %v", e.State())
	}
	comps := e.Diagram().Components()
	if len(comps) != 1 || !comps[0].Closed {
		t.Errorf("components = %+v, want one closed loop", comps)
	}
}

func TestClickArrowReversesComponent(t *testing.T) {
	e := newEditor(t)
	vs := strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})

	click(t, e, 50, 5)
	a, _ := e.Diagram().Arrow(vs[0].In)
	if a == nil || a.Start != vs[1].ID {
		t.Error("click on an arrow should reverse its component")
	}
}

func TestModeVertexSplitsArrow(t *testing.T) {
	e := newEditor(t)
	strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	e.SetMode(ModeVertex)

	click(t, e, 50, 5)
	if e.Diagram().VertexCount() != 3 || e.Diagram().ArrowCount() != 2 {
		t.Errorf("counts = %d vertices, %d arrows, want 3 and 2",
			e.Diagram().VertexCount(), e.Diagram().ArrowCount())
	}
}

func TestClickCrossingTogglesStrands(t *testing.T) {
	e := newEditor(t)
	strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	strand(t, e.Diagram(), "#0000cc",
		geom.Point{X: 50, Y: -50}, geom.Point{X: 50, Y: 50})
	c := e.Diagram().Crossings()[0]
	over := c.Over

	click(t, e, 50, 2)
	if c.Over == over {
		t.Error("plain click should flip over and under")
	}

	if err := e.ShiftClick(geom.Point{X: 50, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if !c.Virtual {
		t.Error("shift-click should mark the crossing virtual")
	}
	click(t, e, 50, 2)
	if c.Virtual {
		t.Error("plain click on a virtual crossing should clear the flag")
	}
}

func TestR2ModeSamePickRejected(t *testing.T) {
	e := newEditor(t)
	crossed(t, e)
	e.SetMode(ModeR2)

	click(t, e, 50, 0) // first pick
	err := e.Click(geom.Point{X: 50, Y: 0})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if e.Diagram().CrossingCount() != 1 {
		t.Error("rejected pick must not change the diagram")
	}
}

func TestUnderModeAffectsNewCrossings(t *testing.T) {
	e := newEditor(t)
	strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})
	e.SetMode(ModeUnder)

	click(t, e, 50, -50)
	click(t, e, 50, 50)
	cs := e.Diagram().Crossings()
	if len(cs) != 1 {
		t.Fatalf("crossings = %d, want 1", len(cs))
	}
	drawn, _ := e.Diagram().Arrow(cs[0].Under)
	if drawn == nil || drawn.Color == "#0a5c00" {
		t.Error("under mode should put the drawn strand underneath")
	}
}

func TestDoubleClickResume(t *testing.T) {
	e := newEditor(t)
	vs := strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0})

	// Resuming from the chain start reverses the strand first.
	if err := e.DoubleClick(geom.Point{X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateDrawing || e.ActiveVertex() != vs[0].ID {
		t.Fatalf("state = %v, active = %d", e.State(), e.ActiveVertex())
	}
	if vs[0].Out != 0 {
		t.Error("head must have a free out slot after resume")
	}
	click(t, e, 0, 100)
	if e.Diagram().ArrowCount() != 2 {
		t.Error("extension after resume failed")
	}
}

func TestDoubleClickCut(t *testing.T) {
	e := newEditor(t)
	vs := strand(t, e.Diagram(), "#0a5c00",
		geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, geom.Point{X: 200, Y: 0})

	if err := e.DoubleClick(geom.Point{X: 100, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateDrawing || e.ActiveVertex() != vs[0].ID {
		t.Fatalf("state = %v, active = %d", e.State(), e.ActiveVertex())
	}
	if vs[1].In != 0 {
		t.Error("cut vertex should lose its incoming arrow")
	}
	if vs[0].Color == "#0a5c00" {
		t.Error("loose piece should get a fresh color")
	}
	if vs[2].Color != "#0a5c00" {
		t.Error("downstream piece keeps its color")
	}

	// The detached arrow is reused as the next segment.
	click(t, e, 100, 100)
	if e.Diagram().ArrowCount() != 2 {
		t.Errorf("arrows = %d, want 2", e.Diagram().ArrowCount())
	}
}
