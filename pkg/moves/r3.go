package moves

import (
	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
)

// R3 prepares a triangle slide. The caller marks two vertices bounding
// the sub-path to slide; the path must run on one level through all of
// its crossings. R3 deletes the marked path and arms the detector so
// the strand, when redrawn by the user on the far side of the triangle,
// comes back on the same level.
//
// It returns the deleted strand's level so the caller can resume
// drawing from the first marked vertex. The diagram is untouched on
// failure.
func R3(d *diagram.Diagram, from, to diagram.VertexID) (Role, error) {
	path, err := PathBetween(d, from, to)
	if err != nil {
		return RoleOver, err
	}
	role, err := strandRole(d, path)
	if err != nil {
		return role, err
	}
	if from == to {
		return role, errors.New(errors.ErrCodeUnsupportedConfig, "marked vertices must differ")
	}
	removePath(d, path)
	if (role == RoleUnder) != d.UnderMode() {
		d.ArmR3Helper()
	}
	return role, nil
}
