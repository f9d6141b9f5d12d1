// Package projection serializes diagrams to and from a JSON document
// format. Documents carry vertices and arrows only; the crossing set,
// being derivable from geometry, is reconstructed by the detector when
// a document is loaded.
package projection

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/skaares/linkpad/pkg/diagram"
	"github.com/skaares/linkpad/pkg/errors"
	"github.com/skaares/linkpad/pkg/geom"
)

// FromDiagram captures a diagram as a document. Pending arrows, which
// only exist mid-gesture, are skipped.
func FromDiagram(d *diagram.Diagram) *Document {
	doc := &Document{
		ID:      uuid.NewString(),
		Version: SchemaVersion,
	}
	index := make(map[diagram.VertexID]int)
	for i, v := range d.Vertices() {
		index[v.ID] = i
		doc.Vertices = append(doc.Vertices, VertexRecord{X: v.Pos.X, Y: v.Pos.Y, Color: v.Color})
	}
	for _, a := range d.Arrows() {
		if a.End == 0 {
			continue
		}
		doc.Arrows = append(doc.Arrows, ArrowRecord{
			Start: index[a.Start],
			End:   index[a.End],
			Color: a.Color,
		})
	}
	return doc
}

// ToDiagram rebuilds a live diagram from a document, running the
// detector over every arrow to recover the crossing set.
func ToDiagram(doc *Document, tol diagram.Tolerances) (*diagram.Diagram, error) {
	if doc.Version != SchemaVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d", doc.Version)
	}
	d := diagram.New(tol)
	ids := make([]diagram.VertexID, len(doc.Vertices))
	for i, rec := range doc.Vertices {
		ids[i] = d.AddVertex(geom.Point{X: rec.X, Y: rec.Y}, rec.Color).ID
	}
	for i, rec := range doc.Arrows {
		if rec.Start < 0 || rec.Start >= len(ids) || rec.End < 0 || rec.End >= len(ids) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "arrow %d references a missing vertex", i)
		}
		if _, err := d.AddArrow(ids[rec.Start], ids[rec.End], rec.Color); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "arrow %d", i)
		}
	}
	d.RefreshAllCrossings()
	return d, nil
}

// Marshal renders the document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal document")
	}
	return append(data, '\n'), nil
}

// Unmarshal parses a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse document")
	}
	return &doc, nil
}

// WriteFile saves a diagram to path.
func WriteFile(path string, d *diagram.Diagram) error {
	data, err := Marshal(FromDiagram(d))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// ReadFile loads a diagram from path.
func ReadFile(path string, tol diagram.Tolerances) (*diagram.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ToDiagram(doc, tol)
}
