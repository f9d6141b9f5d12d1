package geom

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSegmentParams(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, b0, b1 Point
		wantS, wantT   float64
		wantOK         bool
	}{
		{
			name: "PerpendicularMidpoints",
			a0:   Point{0, 0}, a1: Point{10, 0},
			b0: Point{5, -5}, b1: Point{5, 5},
			wantS: 0.5, wantT: 0.5, wantOK: true,
		},
		{
			name: "Diagonal",
			a0:   Point{0, 0}, a1: Point{10, 10},
			b0: Point{0, 10}, b1: Point{10, 0},
			wantS: 0.5, wantT: 0.5, wantOK: true,
		},
		{
			name: "Parallel",
			a0:   Point{0, 0}, a1: Point{10, 0},
			b0: Point{0, 1}, b1: Point{10, 1},
			wantOK: false,
		},
		{
			name: "Collinear",
			a0:   Point{0, 0}, a1: Point{10, 0},
			b0: Point{20, 0}, b1: Point{30, 0},
			wantOK: false,
		},
		{
			name: "OutsideBothRanges",
			a0:   Point{0, 0}, a1: Point{1, 0},
			b0: Point{5, -5}, b1: Point{5, -1},
			wantS: 5, wantT: 1.25, wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, u, ok := SegmentParams(tt.a0, tt.a1, tt.b0, tt.b1)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !almost(s, tt.wantS) || !almost(u, tt.wantT) {
				t.Errorf("params = (%v, %v), want (%v, %v)", s, u, tt.wantS, tt.wantT)
			}
		})
	}
}

func TestSegmentDist(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"AboveMiddle", Point{5, 3}, Point{0, 0}, Point{10, 0}, 3},
		{"BeyondEnd", Point{13, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"BeforeStart", Point{-3, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"OnSegment", Point{4, 0}, Point{0, 0}, Point{10, 0}, 0},
		{"DegenerateSegment", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentDist(tt.p, tt.a, tt.b); !almost(got, tt.want) {
				t.Errorf("SegmentDist = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignedAreaOrientation(t *testing.T) {
	a, b, c := Point{0, 0}, Point{10, 0}, Point{5, 10}
	cw := SignedArea(a, b, c)
	ccw := SignedArea(a, c, b)
	if cw == 0 || ccw == 0 {
		t.Fatal("degenerate triangle")
	}
	if cw == ccw {
		t.Errorf("orientation should flip sign: %v vs %v", cw, ccw)
	}
	if !almost(cw, -ccw) {
		t.Errorf("magnitudes differ: %v vs %v", cw, ccw)
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(Point{0, 0}, Point{10, 20}, 0.25)
	if !almost(got.X, 2.5) || !almost(got.Y, 5) {
		t.Errorf("Lerp = %v", got)
	}
}

func TestUnitNormal(t *testing.T) {
	n := UnitNormal(Point{0, 0}, Point{10, 0})
	if !almost(n.X, 0) || !almost(n.Y, -1) {
		t.Errorf("UnitNormal = %v, want (0,-1)", n)
	}
	if z := UnitNormal(Point{1, 1}, Point{1, 1}); z.X != 0 || z.Y != 0 {
		t.Errorf("degenerate normal = %v, want zero", z)
	}
}
