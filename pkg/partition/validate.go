package partition

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// кольца короче этого проверяем перебором, без индекса
const bruteForceSegments = 32

// segment - ребро кольца в rtree
type segment struct {
	geom.LineString
	i int
}

// IsValid: у каждого кольца минимум 3 различные вершины, ненулевая площадь
// и нет самопересечений.
func IsValid(p geom.Polygon) bool {
	if len(p) == 0 {
		return false
	}
	for _, ring := range p {
		if validateRing(ring) != nil {
			return false
		}
	}
	return true
}

// Validate проверяет границу разбиения. Границу не чиним - только сообщаем.
func Validate(boundary geom.Polygonal) error {
	if boundary == nil {
		return fmt.Errorf("%w: nil", ErrInvalidBoundary)
	}
	polys := boundary.Polygons()
	rings := 0
	for pi, poly := range polys {
		for ri, ring := range poly {
			if err := validateRing(ring); err != nil {
				return fmt.Errorf("%w: polygon %d ring %d: %v", ErrInvalidBoundary, pi, ri, err)
			}
			rings++
		}
	}
	if rings == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidBoundary)
	}
	if boundary.Area() <= 0 {
		return fmt.Errorf("%w: zero area", ErrInvalidBoundary)
	}
	return nil
}

func validateRing(ring []geom.Point) error {
	for _, p := range ring {
		if !finite(p) {
			return fmt.Errorf("non-finite vertex %v", p)
		}
	}
	r := compact(ring)
	if len(r) < 3 {
		return fmt.Errorf("%d distinct vertices", len(r))
	}
	if math.Abs(signedArea(r)) <= eps {
		return fmt.Errorf("zero area")
	}
	if i, j, ok := selfIntersection(r); ok {
		return fmt.Errorf("self-intersection between edges %d and %d", i, j)
	}
	return nil
}

// selfIntersection ищет пару несоседних пересекающихся рёбер кольца
// (и соседних, если они накладываются).
func selfIntersection(r []geom.Point) (int, int, bool) {
	n := len(r)
	seg := func(i int) (geom.Point, geom.Point) { return r[i], r[(i+1)%n] }

	check := func(i, j int) bool {
		if i == j {
			return false
		}
		a, b := seg(i)
		c, d := seg(j)
		if adjacent(i, j, n) {
			return overlapAdjacent(a, b, c, d)
		}
		return segmentsIntersect(a, b, c, d)
	}

	if n <= bruteForceSegments {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if check(i, j) {
					return i, j, true
				}
			}
		}
		return 0, 0, false
	}

	tree := rtree.NewTree(25, 50)
	for i := 0; i < n; i++ {
		a, b := seg(i)
		tree.Insert(&segment{LineString: geom.LineString{a, b}, i: i})
	}
	for i := 0; i < n; i++ {
		a, b := seg(i)
		q := &geom.Bounds{
			Min: geom.Point{X: math.Min(a.X, b.X) - eps, Y: math.Min(a.Y, b.Y) - eps},
			Max: geom.Point{X: math.Max(a.X, b.X) + eps, Y: math.Max(a.Y, b.Y) + eps},
		}
		for _, found := range tree.SearchIntersect(q) {
			j := found.(*segment).i
			if j > i && check(i, j) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func adjacent(i, j, n int) bool {
	return (i+1)%n == j || (j+1)%n == i
}

// overlapAdjacent - соседние рёбра лежат на одной прямой и идут назад (шип).
func overlapAdjacent(a, b, c, d geom.Point) bool {
	// общая вершина: b == c или d == a
	var p, shared, q geom.Point
	switch {
	case samePoint(b, c):
		p, shared, q = a, b, d
	case samePoint(d, a):
		p, shared, q = c, a, b
	default:
		return segmentsIntersect(a, b, c, d)
	}
	if math.Abs(cross(shared, p, q)) > eps*scale(p, shared, q) {
		return false
	}
	// коллинеарны: шип, если p и q по одну сторону от общей вершины
	return (p.X-shared.X)*(q.X-shared.X)+(p.Y-shared.Y)*(q.Y-shared.Y) > 0
}

// segmentsIntersect - отрезки ab и cd пересекаются или касаются.
func segmentsIntersect(a, b, c, d geom.Point) bool {
	tol := eps * scale(a, b, c, d)
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)

	if ((d1 > tol && d2 < -tol) || (d1 < -tol && d2 > tol)) &&
		((d3 > tol && d4 < -tol) || (d3 < -tol && d4 > tol)) {
		return true
	}
	switch {
	case math.Abs(d1) <= tol && onSegment(c, d, a):
		return true
	case math.Abs(d2) <= tol && onSegment(c, d, b):
		return true
	case math.Abs(d3) <= tol && onSegment(a, b, c):
		return true
	case math.Abs(d4) <= tol && onSegment(a, b, d):
		return true
	}
	return false
}

// onSegment - p внутри прямоугольника отрезка ab (коллинеарность проверена выше).
func onSegment(a, b, p geom.Point) bool {
	return math.Min(a.X, b.X)-eps <= p.X && p.X <= math.Max(a.X, b.X)+eps &&
		math.Min(a.Y, b.Y)-eps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+eps
}

// scale - масштаб координат для относительного допуска векторных произведений
func scale(pts ...geom.Point) float64 {
	m := 1.0
	for _, p := range pts {
		m = math.Max(m, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return m * m
}
