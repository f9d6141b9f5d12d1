package projection

// SchemaVersion is written into every document and checked on load.
const SchemaVersion = 1

// Document is the on-disk form of a diagram. Only geometry and colors
// are stored: crossings are a pure function of the arrow segments and
// are rebuilt by the detector on load.
type Document struct {
	// ID is a stable identifier assigned when the document is first
	// serialized.
	ID string `json:"id"`
	// Version is the schema version, see SchemaVersion.
	Version int `json:"version"`
	// Vertices in creation order; arrows reference them by index.
	Vertices []VertexRecord `json:"vertices"`
	// Arrows in creation order.
	Arrows []ArrowRecord `json:"arrows"`
}

// VertexRecord is one vertex of the projection.
type VertexRecord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// ArrowRecord is a directed arrow between two vertices, by index into
// the document's vertex list.
type ArrowRecord struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}
