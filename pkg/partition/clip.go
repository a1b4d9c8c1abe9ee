package partition

import (
	"math"

	"github.com/ctessum/geom"
)

// относительное расхождение площадей, после которого polyclip не верим
const areaTolerance = 1e-9

// intersect пересекает выпуклую ячейку с границей. polyclip на почти
// вырожденных входах иногда теряет результат, поэтому его площадь сверяется
// с отсечением полуплоскостями ячейки; при расхождении берётся отсечение.
func intersect(cell []geom.Point, boundary geom.Polygonal) (geom.Polygonal, bool) {
	exact := clipConvex(cell, boundary)
	region := geom.Polygon{cell}.Intersection(boundary)
	tol := areaTolerance * math.Max(1, boundary.Area())
	if math.Abs(region.Area()-exact.Area()) > tol {
		return exact, true
	}
	return region, false
}

// clipConvex - Сазерленд-Ходжмен: каждое кольцо границы отсекается
// полуплоскостями рёбер cell (cell против часовой). Ориентация колец
// сохраняется, дыры остаются внутри своих оболочек.
func clipConvex(cell []geom.Point, boundary geom.Polygonal) geom.Polygonal {
	var out geom.MultiPolygon
	for _, poly := range boundary.Polygons() {
		var clipped geom.Polygon
		for _, ring := range poly {
			r := clipRing(ring, cell)
			if len(r) >= 3 && math.Abs(signedArea(r)) > 0 {
				clipped = append(clipped, r)
			}
		}
		if len(clipped) > 0 {
			out = append(out, clipped)
		}
	}
	switch len(out) {
	case 0:
		return geom.Polygon{}
	case 1:
		return out[0]
	}
	return out
}

func clipRing(ring, cell []geom.Point) []geom.Point {
	out := compact(ring)
	n := len(cell)
	for i := 0; i < n && len(out) > 0; i++ {
		a, b := cell[i], cell[(i+1)%n]
		if samePoint(a, b) {
			continue
		}
		in := out
		out = make([]geom.Point, 0, len(in)+2)
		for j, p := range in {
			q := in[(j+1)%len(in)]
			dp, dq := cross(a, b, p), cross(a, b, q)
			if dp >= 0 {
				out = append(out, p)
			}
			if (dp >= 0) != (dq >= 0) {
				t := dp / (dp - dq)
				out = append(out, geom.Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)})
			}
		}
		out = compact(out)
	}
	return out
}
