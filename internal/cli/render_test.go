package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/geom"
	"github.com/skaares/linkpad/pkg/projection"
)

func saveFixture(t *testing.T) string {
	t.Helper()
	d := diagram.New(diagram.DefaultTolerances())
	v1 := d.AddVertex(geom.Point{X: 0, Y: 0}, "#a10000")
	v2 := d.AddVertex(geom.Point{X: 100, Y: 0}, "#a10000")
	if _, err := d.AddArrow(v1.ID, v2.ID, "#a10000"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := projection.WriteFile(path, d); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderDOT(t *testing.T) {
	in := saveFixture(t)
	out := filepath.Join(filepath.Dir(in), "out.dot")

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		format:    formatDOT,
		output:    out,
		crossings: true,
		config:    filepath.Join(filepath.Dir(in), "absent.toml"),
	}
	if err := c.runRender(context.Background(), in, opts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph linkpad") {
		t.Errorf("output is not a DOT graph:\n%s", data)
	}
}

func TestRenderDefaultOutputPath(t *testing.T) {
	in := saveFixture(t)

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		format: formatDOT,
		config: filepath.Join(filepath.Dir(in), "absent.toml"),
	}
	if err := c.runRender(context.Background(), in, opts); err != nil {
		t.Fatal(err)
	}
	want := strings.TrimSuffix(in, ".json") + ".dot"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("derived output missing: %v", err)
	}
}
