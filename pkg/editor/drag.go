package editor

import (
	"slices"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/display"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
)

// signature records which arrows a vertex's strands cross and in what
// order. Lock mode keeps it constant through a drag.
type signature struct {
	in, out []diagram.ArrowID
}

func (e *Editor) signatureOf(v *diagram.Vertex) signature {
	var sig signature
	if v.In != 0 {
		sig.in = e.d.CrossedArrows(v.In, v.Out)
	}
	if v.Out != 0 {
		sig.out = e.d.CrossedArrows(v.Out, v.In)
	}
	return sig
}

func (s signature) equal(o signature) bool {
	return slices.Equal(s.in, o.in) && slices.Equal(s.out, o.out)
}

// beginDrag picks up a vertex. The vertex and its arrows freeze so the
// genericity checks ignore the strand in motion; in lock mode the
// crossing signature is captured for enforcement.
func (e *Editor) beginDrag(v *diagram.Vertex) error {
	if e.locked {
		e.savedSig = e.signatureOf(v)
	}
	if err := e.d.SetFrozen(v.ID, true); err != nil {
		return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "freeze for drag")
	}
	e.active = v.ID
	e.dragFrom = v.Pos
	e.dragLast = v.Pos
	e.state = StateDragging
	display.Canvas().HideVertex(int(v.ID))
	e.log.Debug("drag started", "vertex", v.ID, "locked", e.locked)
	return nil
}

// MoveTo moves the dragged vertex to p. Outside lock mode the move is
// unconditional and validation waits for the commit. In lock mode each
// sample is validated: a changed crossing signature or a genericity
// violation reverts to the last accepted position.
func (e *Editor) MoveTo(p geom.Point) error {
	if e.state != StateDragging {
		return nil
	}
	v, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "dragged vertex vanished")
	}
	if !e.locked {
		e.d.MoveVertex(v.ID, p)
		e.dragLast = p
		return nil
	}
	prev := v.Pos
	e.d.MoveVertex(v.ID, p)
	if !e.signatureOf(v).equal(e.savedSig) {
		e.d.MoveVertex(v.ID, prev)
		return errors.New(errors.ErrCodeInvariantViolation, "move would change the crossing pattern")
	}
	if viol := e.d.GenericVertex(v.ID); viol != nil {
		e.d.MoveVertex(v.ID, prev)
		display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "move rejected: %s", viol.Reason)
	}
	e.updateAdjoining(v)
	e.dragLast = p
	return nil
}

// EndDrag commits the drag at p. The adjoining arrows must come out
// generic; on failure the editor stays in Dragging with the vertex at
// its last valid position, so the caller can try elsewhere. If the
// vertex lands on a compatible free endpoint the two strands merge.
func (e *Editor) EndDrag(p geom.Point) error {
	if e.state != StateDragging {
		return nil
	}
	if err := e.MoveTo(p); err != nil {
		return err
	}
	v, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "dragged vertex vanished")
	}
	e.updateAdjoining(v)
	if v.IsEndpoint() && !v.IsIsolated() {
		if other := e.coincidentEndpoint(v); other != nil {
			discarded, err := e.d.Swallow(v.ID, other.ID)
			if err != nil {
				return errors.Wrap(errors.ErrCodeUnsupportedConfig, err, "merge endpoints")
			}
			if discarded != "" && discarded != v.Color {
				e.pal.Recycle(discarded)
			}
			e.updateAdjoining(v)
		}
	}
	for _, id := range []diagram.ArrowID{v.In, v.Out} {
		if id == 0 {
			continue
		}
		if viol := e.d.GenericArrow(id); viol != nil {
			display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
			return errors.New(errors.ErrCodeGeometryDegenerate, "cannot drop here: %s", viol.Reason)
		}
	}
	if viol := e.d.GenericVertex(v.ID); viol != nil {
		display.Canvas().ShowMarker(viol.At.X, viol.At.Y)
		return errors.New(errors.ErrCodeGeometryDegenerate, "cannot drop here: %s", viol.Reason)
	}
	e.d.SetFrozen(v.ID, false)
	display.Canvas().ExposeVertex(int(v.ID))
	display.Canvas().ClearMarker()
	e.reset()
	display.Canvas().Refresh()
	e.log.Debug("drag committed", "vertex", v.ID)
	return nil
}

// CancelDrag abandons the drag, returning the vertex to where it was
// picked up. The pickup position was part of a valid diagram, so the
// commit there cannot fail genericity.
func (e *Editor) CancelDrag() error {
	if e.state != StateDragging {
		return nil
	}
	v, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "dragged vertex vanished")
	}
	e.d.MoveVertex(v.ID, e.dragFrom)
	e.updateAdjoining(v)
	e.d.SetFrozen(v.ID, false)
	display.Canvas().ExposeVertex(int(v.ID))
	display.Canvas().ClearMarker()
	e.reset()
	display.Canvas().Refresh()
	e.log.Debug("drag cancelled", "vertex", v.ID)
	return nil
}

// coincidentEndpoint finds another free endpoint within the vertex hit
// radius of v.
func (e *Editor) coincidentEndpoint(v *diagram.Vertex) *diagram.Vertex {
	for _, other := range e.d.Vertices() {
		if other.ID == v.ID || !other.IsEndpoint() || other.IsIsolated() {
			continue
		}
		if other.Pos.Dist(v.Pos) <= e.d.Tolerances().VertexRadius {
			return other
		}
	}
	return nil
}

// updateAdjoining reconciles crossings along both arrows of a vertex
// and repaints any arrows the detector reports damaged.
func (e *Editor) updateAdjoining(v *diagram.Vertex) {
	for _, id := range []diagram.ArrowID{v.In, v.Out} {
		if id == 0 {
			continue
		}
		for _, hit := range e.d.UpdateCrossings(id) {
			display.Canvas().RedrawArrow(int(hit))
		}
	}
}

// Nudge shifts the dragged vertex by a small key-driven step. Rapid
// nudges within the debounce window accumulate and are applied as one
// move; call NudgeFlush to force out a trailing partial batch.
func (e *Editor) Nudge(dx, dy float64) error {
	if e.state != StateDragging {
		return nil
	}
	e.nudgeAcc.X += dx
	e.nudgeAcc.Y += dy
	now := e.now()
	if now.Sub(e.nudgeAt) < e.debounce {
		return nil
	}
	e.nudgeAt = now
	return e.applyNudge()
}

// NudgeFlush applies any nudge movement still buffered by the debounce.
func (e *Editor) NudgeFlush() error {
	if e.state != StateDragging || (e.nudgeAcc == geom.Point{}) {
		return nil
	}
	return e.applyNudge()
}

func (e *Editor) applyNudge() error {
	acc := e.nudgeAcc
	e.nudgeAcc = geom.Point{}
	v, ok := e.d.Vertex(e.active)
	if !ok {
		e.reset()
		return errors.New(errors.ErrCodeStructuralInconsistency, "dragged vertex vanished")
	}
	return e.MoveTo(v.Pos.Add(acc.X, acc.Y))
}
