package partition

import (
	"math"

	"github.com/ctessum/geom"
)

const eps = 1e-12

// signedArea - площадь кольца по формуле шнурка, > 0 против часовой.
func signedArea(ring []geom.Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	a := 0.0
	for i := 0; i < n; i++ {
		p, q := ring[i], ring[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// compact убирает повторы соседних вершин и замыкающую вершину.
func compact(ring []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// counterClockwise разворачивает кольцо, если оно по часовой.
func counterClockwise(ring []geom.Point) []geom.Point {
	if signedArea(ring) >= 0 {
		return ring
	}
	out := make([]geom.Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

func samePoint(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// cross - z-компонента (b-a) x (c-a)
func cross(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
