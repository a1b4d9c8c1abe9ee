package partition

import (
	"sort"

	"github.com/ctessum/geom"
)

// Repair чинит ячейку, испорченную численным вырождением.
// Ячейка Вороного выпукла, поэтому годится выпуклая оболочка её вершин:
// на валидном выпуклом многоугольнике площадь не меняется.
// Меньше трёх неколлинеарных вершин - пустой многоугольник.
func Repair(p geom.Polygon) geom.Polygon {
	var pts []geom.Point
	for _, ring := range p {
		for _, v := range ring {
			if finite(v) {
				pts = append(pts, v)
			}
		}
	}
	hull := convexHull(pts)
	if len(hull) < 3 {
		return geom.Polygon{}
	}
	return geom.Polygon{hull}
}

// convexHull - монотонная цепочка Эндрю, результат против часовой без коллинеарных вершин.
func convexHull(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return nil
	}
	sorted := make([]geom.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	hull := make([]geom.Point, 0, 2*len(sorted))
	// нижняя цепочка
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// верхняя цепочка
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// последняя совпадает с первой
	return compact(hull[:len(hull)-1])
}
