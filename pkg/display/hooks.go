// Package display decouples the editing engine from whatever is
// painting it. The engine reports presentation events through a Hooks
// implementation; the default implementation discards them, so the
// engine runs headless in tests and batch tools without any canvas.
package display

// Hooks receives presentation events from the editor and the crossing
// detector. IDs are the integer handles of the diagram entities.
//
// Implementations must be cheap and must not call back into the engine;
// they are invoked in the middle of mutations.
type Hooks interface {
	// RedrawArrow signals that an arrow must be repainted whole, for
	// example because it stopped being the under strand of a crossing
	// and its gap must be filled in.
	RedrawArrow(id int)

	// ExposeVertex and HideVertex toggle a vertex's visibility, used
	// while a drag temporarily detaches a strand from the canvas.
	ExposeVertex(id int)
	HideVertex(id int)

	// ShowMarker places the transient marker at a canvas location where
	// a genericity check failed. ClearMarker removes it; the editor
	// clears the marker on the next successful mutation.
	ShowMarker(x, y float64)
	ClearMarker()

	// Refresh signals that the whole diagram changed, after a
	// Reidemeister move or a document load.
	Refresh()
}

// NoopHooks discards every event.
type NoopHooks struct{}

func (NoopHooks) RedrawArrow(int)        {}
func (NoopHooks) ExposeVertex(int)       {}
func (NoopHooks) HideVertex(int)         {}
func (NoopHooks) ShowMarker(_, _ float64) {}
func (NoopHooks) ClearMarker()           {}
func (NoopHooks) Refresh()               {}

var current Hooks = NoopHooks{}

// Register installs the hooks implementation. Passing nil restores the
// no-op default.
func Register(h Hooks) {
	if h == nil {
		current = NoopHooks{}
		return
	}
	current = h
}

// Canvas returns the registered hooks.
func Canvas() Hooks { return current }
