// Package editor drives a diagram through pointer and key gestures. It
// owns the editing state machine: Idle, Drawing a new strand, or
// Dragging a vertex, with an orthogonal mode that changes what a click
// means. Every gesture either completes and leaves the diagram
// consistent or fails with a coded error and leaves it untouched.
package editor

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/display"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
	"github.com/skaares/linkpad/pkg/moves"
	"github.com/skaares/linkpad/pkg/palette"
)

// State is the editing state. States are mutually exclusive and every
// gesture handler switches on exactly one.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Mode selects what a click does while Idle. Modes are orthogonal to
// the state: switching modes never changes the state.
type Mode int

const (
	// ModeNone is plain editing: click to draw, drag, or toggle.
	ModeNone Mode = iota
	// ModeVertex splits an arrow where it is clicked.
	ModeVertex
	// ModeUnder makes newly drawn strands pass under existing ones.
	ModeUnder
	// ModeR1 untwists the clicked kink.
	ModeR1
	// ModeR2 lifts a bigon after two crossings are picked.
	ModeR2
	// ModeR3 slides a strand after two vertices are marked.
	ModeR3
)

func (m Mode) String() string {
	switch m {
	case ModeVertex:
		return "vertex"
	case ModeUnder:
		return "under"
	case ModeR1:
		return "r1"
	case ModeR2:
		return "r2"
	case ModeR3:
		return "r3"
	default:
		return "none"
	}
}

// DefaultNudgeDebounce is the window within which key nudges collapse
// into a single move.
const DefaultNudgeDebounce = 100 * time.Millisecond

// Option configures an Editor.
type Option func(*Editor)

// WithClock replaces the wall clock, for deterministic debounce tests.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithLogger sets the gesture logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithNudgeDebounce overrides the nudge debounce window.
func WithNudgeDebounce(d time.Duration) Option {
	return func(e *Editor) { e.debounce = d }
}

// Editor runs the gesture state machine over one diagram. Not safe for
// concurrent use.
type Editor struct {
	d   *diagram.Diagram
	pal *palette.Palette
	log *log.Logger

	state  State
	mode   Mode
	locked bool

	active  diagram.VertexID // head vertex while drawing or dragging
	pending diagram.ArrowID  // in-flight arrow while drawing

	dragFrom geom.Point // pickup position, restored on cancel
	dragLast geom.Point // last accepted drag position
	savedSig signature  // crossing signature at drag start, lock mode

	r2picks []*diagram.Crossing
	r3marks []diagram.VertexID

	now      func() time.Time
	debounce time.Duration
	nudgeAcc geom.Point
	nudgeAt  time.Time
}

// New creates an editor over the diagram. A nil palette gets the
// default color ring.
func New(d *diagram.Diagram, pal *palette.Palette, opts ...Option) *Editor {
	if pal == nil {
		pal = palette.New(nil)
	}
	e := &Editor{
		d:        d,
		pal:      pal,
		log:      log.New(io.Discard),
		now:      time.Now,
		debounce: DefaultNudgeDebounce,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diagram returns the diagram being edited.
func (e *Editor) Diagram() *diagram.Diagram { return e.d }

// State returns the current editing state.
func (e *Editor) State() State { return e.state }

// Mode returns the current click mode.
func (e *Editor) Mode() Mode { return e.mode }

// ActiveVertex returns the vertex being drawn from or dragged, zero
// when Idle.
func (e *Editor) ActiveVertex() diagram.VertexID { return e.active }

// SetMode switches the click mode and discards any half-made move
// selection.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
	e.d.SetUnderMode(m == ModeUnder)
	e.r2picks = nil
	e.r3marks = nil
}

// SetLocked toggles lock mode: drags must preserve the crossing
// signature and clicks that would change the topology are ignored.
func (e *Editor) SetLocked(on bool) { e.locked = on }

// Locked reports whether lock mode is on.
func (e *Editor) Locked() bool { return e.locked }

// Click handles a primary click. The meaning depends on state and mode.
func (e *Editor) Click(p geom.Point) error {
	switch e.state {
	case StateDrawing:
		return e.clickDrawing(p)
	case StateDragging:
		return e.EndDrag(p)
	default:
		return e.clickIdle(p)
	}
}

func (e *Editor) clickIdle(p geom.Point) error {
	if v := e.d.FindVertex(p); v != nil {
		if e.mode == ModeR3 {
			return e.markR3(v)
		}
		if v.IsIsolated() {
			e.active = v.ID
			e.state = StateDrawing
			return nil
		}
		return e.beginDrag(v)
	}
	if e.locked {
		return nil // lock mode: only vertex drags allowed
	}
	if c := e.d.FindCrossing(p); c != nil {
		return e.clickCrossing(c)
	}
	if a := e.d.FindArrow(p); a != nil {
		if e.mode == ModeVertex {
			if _, err := e.d.SplitArrow(a.ID, p); err != nil {
				return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "split arrow %d", a.ID)
			}
			display.Canvas().Refresh()
			return nil
		}
		if err := e.d.ReversePath(a.Start); err != nil {
			return errors.Wrap(errors.ErrCodeStructuralInconsistency, err, "reverse component")
		}
		display.Canvas().Refresh()
		return nil
	}
	return e.startDrawing(p)
}

func (e *Editor) clickCrossing(c *diagram.Crossing) error {
	switch e.mode {
	case ModeR1:
		if err := moves.R1(e.d, c); err != nil {
			e.log.Debug("r1 rejected", "err", err)
			return err
		}
		display.Canvas().Refresh()
		return nil
	case ModeR2:
		return e.pickR2(c)
	default:
		// Plain click: a virtual crossing becomes real again, a real
		// one flips over and under.
		if c.Virtual {
			c.Virtual = false
		} else {
			c.Reverse()
			display.Canvas().RedrawArrow(int(c.Under))
		}
		display.Canvas().Refresh()
		return nil
	}
}

func (e *Editor) pickR2(c *diagram.Crossing) error {
	if len(e.r2picks) == 1 && e.r2picks[0] == c {
		return errors.New(errors.ErrCodeInvalidInput, "the same crossing was picked twice")
	}
	e.r2picks = append(e.r2picks, c)
	if len(e.r2picks) < 2 {
		return nil
	}
	err := moves.R2(e.d, e.r2picks[0], e.r2picks[1])
	e.r2picks = nil
	if err != nil {
		e.log.Debug("r2 rejected", "err", err)
		return err
	}
	display.Canvas().Refresh()
	return nil
}

func (e *Editor) markR3(v *diagram.Vertex) error {
	if len(e.r3marks) == 1 && e.r3marks[0] == v.ID {
		return nil
	}
	e.r3marks = append(e.r3marks, v.ID)
	if len(e.r3marks) < 2 {
		return nil
	}
	from, to := e.r3marks[0], e.r3marks[1]
	e.r3marks = nil
	role, err := moves.R3(e.d, from, to)
	if err != nil {
		e.log.Debug("r3 rejected", "err", err)
		return err
	}
	e.log.Debug("r3 strand deleted", "role", role)
	// The user redraws the strand from the first mark; the armed
	// detector keeps its level.
	e.active = from
	e.state = StateDrawing
	display.Canvas().Refresh()
	return nil
}

// DoubleClick resumes drawing from an endpoint, or cuts a strand at an
// interior vertex and picks up the loose end. During a drag it commits
// the drag first.
func (e *Editor) DoubleClick(p geom.Point) error {
	if e.state == StateDragging {
		if err := e.EndDrag(p); err != nil {
			return err
		}
	}
	if e.state != StateIdle {
		return nil
	}
	v := e.d.FindVertex(p)
	if v == nil || v.IsIsolated() {
		return nil
	}
	if v.IsEndpoint() {
		return e.resumeDrawing(v)
	}
	return e.cutAt(v)
}

// ShiftClick toggles the virtual flag of the crossing under the
// pointer. Ignored in lock mode and outside Idle.
func (e *Editor) ShiftClick(p geom.Point) error {
	if e.locked || e.state != StateIdle {
		return nil
	}
	if c := e.d.FindCrossing(p); c != nil {
		c.Virtual = !c.Virtual
		display.Canvas().Refresh()
	}
	return nil
}
