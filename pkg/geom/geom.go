// Package geom provides the small amount of planar geometry the diagram
// engine needs: points, segment intersection parameters, point-to-segment
// distance, and signed areas.
//
// Everything works on float64 coordinates in canvas space (y grows
// downward). There is deliberately no tolerance handling here - callers
// decide what "close enough" means for their check.
package geom

import "math"

// Point is a location in canvas coordinates.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Cross returns the z component of the cross product p x q.
func Cross(p, q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Dot returns the dot product of p and q.
func Dot(p, q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Lerp returns the point at parameter t along the segment from a to b.
func Lerp(a, b Point, t float64) Point {
	return Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

// SegmentParams solves for the intersection of segments a0-a1 and b0-b1
// using the cross-product parametrization. It returns the parameters
// (s along a, t along b) and ok=false when the segments are parallel
// (zero determinant). The parameters are unclamped: callers test for
// proper interior intersections by requiring both to lie in (0, 1).
func SegmentParams(a0, a1, b0, b1 Point) (s, t float64, ok bool) {
	u := a1.Sub(a0)
	v := b1.Sub(b0)
	denom := Cross(u, v)
	if denom == 0 {
		return 0, 0, false
	}
	w := b0.Sub(a0)
	s = Cross(w, v) / denom
	t = Cross(w, u) / denom
	return s, t, true
}

// SegmentDist returns the distance from point p to the segment a-b.
// Degenerate segments (a == b) reduce to point distance.
func SegmentDist(p, a, b Point) float64 {
	u := b.Sub(a)
	len2 := Dot(u, u)
	if len2 == 0 {
		return p.Dist(a)
	}
	t := Dot(p.Sub(a), u) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(Lerp(a, b, t))
}

// SignedArea returns twice the signed area of the triangle a, b, c.
// Positive means the vertices wind counterclockwise in screen
// coordinates (y down), negative clockwise.
func SignedArea(a, b, c Point) float64 {
	return (b.X-a.X)*(b.Y+a.Y) + (c.X-b.X)*(c.Y+b.Y) + (a.X-c.X)*(a.Y+c.Y)
}

// UnitNormal returns a unit vector perpendicular to the direction from
// a to b, rotated to the left of the direction of travel. Returns the
// zero vector for a degenerate segment.
func UnitNormal(a, b Point) Point {
	u := b.Sub(a)
	n := math.Hypot(u.X, u.Y)
	if n == 0 {
		return Point{}
	}
	return Point{u.Y / n, -u.X / n}
}
