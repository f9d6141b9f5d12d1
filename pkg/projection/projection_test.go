package projection

import (
	"path/filepath"
	"testing"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
)

func sample(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New(diagram.Tolerances{})
	pts := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}
	var prev diagram.VertexID
	for i, p := range pts {
		v := d.AddVertex(p, "#a10000")
		if i > 0 {
			if _, err := d.AddArrow(prev, v.ID, "#a10000"); err != nil {
				t.Fatal(err)
			}
		}
		prev = v.ID
	}
	v1 := d.AddVertex(geom.Point{X: 50, Y: -50}, "#0000cc")
	v2 := d.AddVertex(geom.Point{X: 50, Y: 50}, "#0000cc")
	a, err := d.AddArrow(v1.ID, v2.ID, "#0000cc")
	if err != nil {
		t.Fatal(err)
	}
	d.UpdateCrossings(a.ID)
	return d
}

func TestRoundTrip(t *testing.T) {
	d := sample(t)
	doc := FromDiagram(d)
	if doc.ID == "" || doc.Version != SchemaVersion {
		t.Fatalf("header = %+v", doc)
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ToDiagram(parsed, diagram.DefaultTolerances())
	if err != nil {
		t.Fatal(err)
	}

	if got.VertexCount() != d.VertexCount() || got.ArrowCount() != d.ArrowCount() {
		t.Errorf("counts = %d/%d, want %d/%d",
			got.VertexCount(), got.ArrowCount(), d.VertexCount(), d.ArrowCount())
	}
	if got.CrossingCount() != 1 || !got.CheckConsistency() {
		t.Error("crossings must be rebuilt from geometry on load")
	}
	if got.Crossings()[0].Pos.Dist(geom.Point{X: 50, Y: 0}) > 1e-9 {
		t.Errorf("crossing at %v", got.Crossings()[0].Pos)
	}
}

func TestPendingArrowSkipped(t *testing.T) {
	d := sample(t)
	v := d.AddVertex(geom.Point{X: 300, Y: 300}, "#0a5c00")
	if _, err := d.AddPendingArrow(v.ID, "#0a5c00"); err != nil {
		t.Fatal(err)
	}

	doc := FromDiagram(d)
	if len(doc.Arrows) != 2 {
		t.Errorf("arrows = %d, want 2 with the pending arrow skipped", len(doc.Arrows))
	}
}

func TestFileRoundTrip(t *testing.T) {
	d := sample(t)
	path := filepath.Join(t.TempDir(), "trefoil.json")

	if err := WriteFile(path, d); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path, diagram.DefaultTolerances())
	if err != nil {
		t.Fatal(err)
	}
	if got.VertexCount() != d.VertexCount() || got.CrossingCount() != 1 {
		t.Error("file round trip lost entities")
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"), diagram.DefaultTolerances())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestVersionAndIndexValidation(t *testing.T) {
	if _, err := ToDiagram(&Document{Version: 99}, diagram.DefaultTolerances()); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad version: err = %v, want INVALID_FORMAT", err)
	}
	doc := &Document{
		Version:  SchemaVersion,
		Vertices: []VertexRecord{{X: 0, Y: 0}},
		Arrows:   []ArrowRecord{{Start: 0, End: 5}},
	}
	if _, err := ToDiagram(doc, diagram.DefaultTolerances()); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad index: err = %v, want INVALID_FORMAT", err)
	}
}
