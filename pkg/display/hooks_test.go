package display

import "testing"

type recorder struct {
	NoopHooks
	redrawn []int
	markers int
}

func (r *recorder) RedrawArrow(id int)       { r.redrawn = append(r.redrawn, id) }
func (r *recorder) ShowMarker(_, _ float64)  { r.markers++ }

func TestRegisterAndDispatch(t *testing.T) {
	rec := &recorder{}
	Register(rec)
	defer Register(nil)

	Canvas().RedrawArrow(3)
	Canvas().ShowMarker(10, 20)
	Canvas().ClearMarker() // inherited no-op

	if len(rec.redrawn) != 1 || rec.redrawn[0] != 3 {
		t.Errorf("redrawn = %v", rec.redrawn)
	}
	if rec.markers != 1 {
		t.Errorf("markers = %d", rec.markers)
	}
}

func TestRegisterNilRestoresNoop(t *testing.T) {
	Register(&recorder{})
	Register(nil)
	if _, ok := Canvas().(NoopHooks); !ok {
		t.Error("nil should restore the no-op hooks")
	}
}
