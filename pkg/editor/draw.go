package editor

import (
	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/display"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
)

// startDrawing places the first vertex of a new strand on empty canvas.
func (e *Editor) startDrawing(p geom.Point) error {
	color := e.pal.Next()
	v := e.d.AddVertex(p, color)
	if viol := e.d.GenericVertex(v.ID); viol != nil {
		e.d.RemoveVertex(v.ID)
		e.pal.Recycle(color)
		display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "cannot start here: %s", viol.Reason)
	}
	display.Canvas().ClearMarker()
	e.active = v.ID
	e.state = StateDrawing
	e.log.Debug("drawing started", "vertex", v.ID)
	return nil
}

// resumeDrawing continues a strand from one of its free ends. A chain
// start is reversed first so the free end is always the head.
func (e *Editor) resumeDrawing(v *diagram.Vertex) error {
	if v.Out != 0 {
		if err := e.d.ReversePath(v.ID); err != nil {
			return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "reverse for resume")
		}
	}
	e.active = v.ID
	e.state = StateDrawing
	return nil
}

// cutAt severs the strand at an interior vertex. The incoming arrow is
// detached and becomes the in-flight arrow of a new drawing gesture, so
// the loose end follows the pointer; the upstream piece gets a fresh
// color.
func (e *Editor) cutAt(v *diagram.Vertex) error {
	cut, ok := e.d.Arrow(v.In)
	if !ok {
		return errors.New(errors.ErrCodeStructuralInconsistency, "vertex %d has no incoming arrow", v.ID)
	}
	if err := e.d.DetachEnd(cut.ID); err != nil {
		return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "detach at cut")
	}
	if comp, ok := e.d.ComponentOf(cut.Start); ok {
		e.d.RecolorComponent(comp, e.pal.Next())
	}
	e.active = cut.Start
	e.pending = cut.ID
	e.state = StateDrawing
	display.Canvas().Refresh()
	return nil
}

// clickDrawing extends the strand being drawn: a click on the head
// cancels, a click on another vertex joins, a click on empty canvas
// adds a segment.
func (e *Editor) clickDrawing(p geom.Point) error {
	head, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "drawing head vanished")
	}
	if head.Pos.Dist(p) <= e.d.Tolerances().VertexRadius {
		// Click on the head: abandon the in-flight arrow, keep the
		// strand drawn so far.
		if e.pending != 0 {
			e.d.RemoveArrow(e.pending)
		}
		if head.IsIsolated() {
			e.d.RemoveVertex(head.ID)
			e.pal.Recycle(head.Color)
		}
		e.reset()
		display.Canvas().Refresh()
		return nil
	}
	if e.pending == 0 {
		a, err := e.d.AddPendingArrow(head.ID, head.Color)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "start segment")
		}
		e.pending = a.ID
	}
	if target := e.d.FindVertex(p); target != nil && target.ID != head.ID {
		return e.joinTo(head, target)
	}
	return e.extendTo(head, p)
}

// extendTo commits one more segment ending at a fresh vertex.
func (e *Editor) extendTo(head *diagram.Vertex, p geom.Point) error {
	v := e.d.AddVertex(p, head.Color)
	if err := e.d.AttachEnd(e.pending, v.ID); err != nil {
		e.d.RemoveVertex(v.ID)
		return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "attach segment")
	}
	if viol := e.violationFor(v.ID, e.pending); viol != nil {
		e.d.DetachEnd(e.pending)
		e.d.RemoveVertex(v.ID)
		display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "segment rejected: %s", viol.Reason)
	}
	for _, id := range e.d.UpdateCrossings(e.pending) {
		display.Canvas().RedrawArrow(int(id))
	}
	display.Canvas().ClearMarker()
	e.active = v.ID
	e.pending = 0
	return nil
}

// joinTo ends the strand on an existing free endpoint, merging the two
// components. The merged component keeps the drawn strand's color.
func (e *Editor) joinTo(head, target *diagram.Vertex) error {
	if !target.IsEndpoint() {
		display.Canvas().ShowMarker(target.Pos.X, target.Pos.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "strand already runs through that vertex")
	}
	sameComponent := false
	if comp, ok := e.d.ComponentOf(head.ID); ok {
		if other, otherOK := e.d.ComponentOf(target.ID); otherOK && len(other.Arrows) > 0 && other.Arrows[0] == comp.Arrows[0] {
			sameComponent = true
		}
	}
	if target.In != 0 {
		if err := e.d.ReversePath(target.ID); err != nil {
			return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "reverse for join")
		}
	}
	if err := e.d.AttachEnd(e.pending, target.ID); err != nil {
		return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "join strands")
	}
	if viol := e.d.GenericArrow(e.pending); viol != nil {
		e.d.DetachEnd(e.pending)
		display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "segment rejected: %s", viol.Reason)
	}
	for _, id := range e.d.UpdateCrossings(e.pending) {
		display.Canvas().RedrawArrow(int(id))
	}
	if !sameComponent {
		discarded := target.Color
		if comp, ok := e.d.ComponentOf(head.ID); ok {
			e.d.RecolorComponent(comp, head.Color)
		}
		if discarded != head.Color {
			e.pal.Recycle(discarded)
		}
	}
	display.Canvas().ClearMarker()
	e.reset()
	display.Canvas().Refresh()
	return nil
}

// DeleteBack retracts the most recent segment of the strand being
// drawn. Retracting the last segment removes the origin vertex too and
// returns to Idle.
func (e *Editor) DeleteBack() error {
	if e.state != StateDrawing {
		return nil
	}
	head, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "drawing head vanished")
	}
	if last := head.In; last != 0 {
		a, _ := e.d.Arrow(last)
		prev := a.Start
		if e.pending != 0 {
			e.d.RemoveArrow(e.pending)
			e.pending = 0
		}
		e.d.RemoveArrow(last)
		e.d.RemoveVertex(head.ID)
		e.active = prev
		head, _ = e.d.Vertex(prev)
		display.Canvas().Refresh()
	}
	if head != nil && head.In == 0 && head.Out == 0 {
		if e.pending != 0 {
			e.d.RemoveArrow(e.pending)
			e.pending = 0
		}
		color := head.Color
		e.d.RemoveVertex(head.ID)
		e.pal.Recycle(color)
		e.reset()
		display.Canvas().Refresh()
	}
	return nil
}

// violationFor runs both genericity checks for a fresh segment.
func (e *Editor) violationFor(v diagram.VertexID, a diagram.ArrowID) *diagram.Violation {
	if viol := e.d.GenericVertex(v); viol != nil {
		return viol
	}
	return e.d.GenericArrow(a)
}

func (e *Editor) reset() {
	e.state = StateIdle
	e.active = 0
	e.pending = 0
}
