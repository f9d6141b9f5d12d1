// Package palette hands out component colors and takes them back when
// components merge, so a long editing session keeps reusing a small set
// of distinguishable hues instead of drifting through arbitrary ones.
package palette

// DefaultColors is the stock color ring, ordered by how distinguishable
// the colors are on a light canvas.
var DefaultColors = []string{
	"#a10000", "#0a5c00", "#0000cc", "#9e00a1",
	"#b85c00", "#007a7a", "#660e7a", "#4a4a00",
	"#a1004f", "#003c8f", "#5c3a00", "#006629",
}

// Palette allocates colors from a fixed ring. Not safe for concurrent
// use.
type Palette struct {
	colors   []string
	inUse    []bool
	overflow int
}

// New creates a palette over the given ring, or [DefaultColors] when
// none is supplied.
func New(colors []string) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{
		colors: colors,
		inUse:  make([]bool, len(colors)),
	}
}

// Next returns the first free color of the ring and marks it in use.
// When every color is taken it cycles through the ring again, so a
// color may then be shared by two components.
func (p *Palette) Next() string {
	for i, used := range p.inUse {
		if !used {
			p.inUse[i] = true
			return p.colors[i]
		}
	}
	c := p.colors[p.overflow%len(p.colors)]
	p.overflow++
	return c
}

// Claim marks a color as in use, for seeding the palette from a loaded
// document. Colors not in the ring are ignored.
func (p *Palette) Claim(color string) {
	for i, c := range p.colors {
		if c == color {
			p.inUse[i] = true
			return
		}
	}
}

// Recycle returns a color to the free pool. Colors not in the ring are
// ignored.
func (p *Palette) Recycle(color string) {
	for i, c := range p.colors {
		if c == color {
			p.inUse[i] = false
			return
		}
	}
}

// Reset frees every color.
func (p *Palette) Reset() {
	for i := range p.inUse {
		p.inUse[i] = false
	}
	p.overflow = 0
}
