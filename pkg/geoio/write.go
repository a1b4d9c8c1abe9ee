package geoio

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/0x0FACED/busregions/pkg/regions"
	"github.com/ctessum/geom"
	geojson "github.com/paulmach/go.geojson"
)

// WriteRegions writes a FeatureCollection with one feature per region and the
// properties name, x, y and country. Empty regions get a null geometry.
func WriteRegions(w io.Writer, rs []regions.Region) error {
	fc := geojson.NewFeatureCollection()
	for _, r := range rs {
		f := geojson.NewFeature(toGeoJSON(r.Geometry))
		f.SetProperty("name", r.Name)
		f.SetProperty("x", r.X)
		f.SetProperty("y", r.Y)
		f.SetProperty("country", r.Country)
		fc.AddFeature(f)
	}
	return writeCollection(w, fc)
}

// WriteShapes пишет границы как есть, по именам в алфавитном порядке.
func WriteShapes(w io.Writer, shapes regions.Shapes) error {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)

	fc := geojson.NewFeatureCollection()
	for _, name := range names {
		f := geojson.NewFeature(toGeoJSON(shapes[name]))
		f.SetProperty("name", name)
		fc.AddFeature(f)
	}
	return writeCollection(w, fc)
}

func writeCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("geoio: encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}

type ring struct {
	pts   []geom.Point
	area  float64
	depth int
}

// toGeoJSON раскладывает набор колец на оболочки и дыры. Кольцо внутри
// нечётного числа других колец - дыра ближайшей охватывающей оболочки.
func toGeoJSON(g geom.Polygonal) *geojson.Geometry {
	if g == nil {
		return nil
	}
	var rings []*ring
	for _, poly := range g.Polygons() {
		for _, r := range poly {
			pts := openRing(r)
			if len(pts) < 3 {
				continue
			}
			a := signedArea(pts)
			if a == 0 {
				continue
			}
			rings = append(rings, &ring{pts: pts, area: a})
		}
	}
	if len(rings) == 0 {
		return nil
	}

	for i, r := range rings {
		for j, other := range rings {
			if i != j && ringInside(r.pts, other.pts) {
				r.depth++
			}
		}
	}

	var shells []*ring
	holes := make(map[*ring][]*ring)
	for _, r := range rings {
		if r.depth%2 == 0 {
			shells = append(shells, r)
		}
	}
	for _, r := range rings {
		if r.depth%2 == 0 {
			continue
		}
		var parent *ring
		for _, s := range shells {
			if s.depth != r.depth-1 || !ringInside(r.pts, s.pts) {
				continue
			}
			if parent == nil || math.Abs(s.area) < math.Abs(parent.area) {
				parent = s
			}
		}
		if parent != nil {
			holes[parent] = append(holes[parent], r)
		}
	}

	polys := make([][][][]float64, 0, len(shells))
	for _, s := range shells {
		p := [][][]float64{coords(s, true)}
		for _, h := range holes[s] {
			p = append(p, coords(h, false))
		}
		polys = append(polys, p)
	}
	if len(polys) == 1 {
		return geojson.NewPolygonGeometry(polys[0])
	}
	return geojson.NewMultiPolygonGeometry(polys...)
}

// coords - замкнутое кольцо: оболочка против часовой, дыра по часовой.
func coords(r *ring, ccw bool) [][]float64 {
	n := len(r.pts)
	out := make([][]float64, 0, n+1)
	reverse := (r.area > 0) != ccw
	for i := 0; i < n; i++ {
		p := r.pts[i]
		if reverse {
			p = r.pts[n-1-i]
		}
		out = append(out, []float64{p.X, p.Y})
	}
	return append(out, out[0])
}

// ringInside: ни одна вершина a не снаружи b и хотя бы одна строго внутри.
func ringInside(a, b []geom.Point) bool {
	outer := geom.Polygon{b}
	inside := false
	for _, p := range a {
		switch p.Within(outer) {
		case geom.Outside:
			return false
		case geom.Inside:
			inside = true
		}
	}
	return inside
}

func signedArea(r []geom.Point) float64 {
	var s float64
	for i := range r {
		j := (i + 1) % len(r)
		s += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return s / 2
}
