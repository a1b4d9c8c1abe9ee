package geoio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0x0FACED/busregions/pkg/regions"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	geojson "github.com/paulmach/go.geojson"
)

// NameField - свойство (или поле dbf), по которому адресуются границы.
const NameField = "name"

// ReadShapes loads named boundaries from a GeoJSON (.geojson, .json) or
// shapefile (.shp). Only polygonal geometries are accepted and names must be
// unique.
func ReadShapes(path string) (regions.Shapes, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return readGeoJSONShapes(path)
	case ".shp":
		return readShapefile(path)
	default:
		return nil, fmt.Errorf("%w: unsupported shapes format %q", ErrFormat, ext)
	}
}

func readGeoJSONShapes(path string) (regions.Shapes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geoio: read %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}

	shapes := make(regions.Shapes, len(fc.Features))
	for i, f := range fc.Features {
		name, err := f.PropertyString(NameField)
		if err != nil {
			return nil, fmt.Errorf("%w: %s feature %d: %v", ErrFormat, path, i, err)
		}
		g, err := fromGeoJSON(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%w: %s feature %q: %v", ErrFormat, path, name, err)
		}
		if err := addShape(shapes, name, g); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return shapes, nil
}

func fromGeoJSON(g *geojson.Geometry) (geom.Polygonal, error) {
	if g == nil {
		return nil, fmt.Errorf("no geometry")
	}
	switch g.Type {
	case geojson.GeometryPolygon:
		return polygonFromCoords(g.Polygon), nil
	case geojson.GeometryMultiPolygon:
		mp := make(geom.MultiPolygon, 0, len(g.MultiPolygon))
		for _, p := range g.MultiPolygon {
			mp = append(mp, polygonFromCoords(p))
		}
		return mp, nil
	}
	return nil, fmt.Errorf("geometry %s is not polygonal", g.Type)
}

func polygonFromCoords(rings [][][]float64) geom.Polygon {
	poly := make(geom.Polygon, 0, len(rings))
	for _, r := range rings {
		ring := make([]geom.Point, 0, len(r))
		for _, c := range r {
			if len(c) < 2 {
				continue
			}
			ring = append(ring, geom.Point{X: c[0], Y: c[1]})
		}
		poly = append(poly, openRing(ring))
	}
	return poly
}

func readShapefile(path string) (regions.Shapes, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("geoio: open %s: %w", path, err)
	}
	defer dec.Close()

	shapes := make(regions.Shapes)
	for row := 0; ; row++ {
		g, fields, more := dec.DecodeRowFields(NameField)
		if !more {
			break
		}
		name := strings.TrimSpace(fields[NameField])
		if name == "" {
			return nil, fmt.Errorf("%w: %s row %d: empty %s", ErrFormat, path, row, NameField)
		}
		var poly geom.Polygonal
		switch t := g.(type) {
		case geom.Polygon:
			poly = openPolygon(t)
		case geom.MultiPolygon:
			mp := make(geom.MultiPolygon, 0, len(t))
			for _, p := range t {
				mp = append(mp, openPolygon(p))
			}
			poly = mp
		default:
			return nil, fmt.Errorf("%w: %s row %d: geometry %T is not polygonal", ErrFormat, path, row, g)
		}
		if err := addShape(shapes, name, poly); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("geoio: decode %s: %w", path, err)
	}
	return shapes, nil
}

func addShape(shapes regions.Shapes, name string, g geom.Polygonal) error {
	if _, ok := shapes[name]; ok {
		return fmt.Errorf("%w: duplicate shape %q", ErrFormat, name)
	}
	shapes[name] = g
	return nil
}

func openPolygon(p geom.Polygon) geom.Polygon {
	out := make(geom.Polygon, 0, len(p))
	for _, r := range p {
		out = append(out, openRing(r))
	}
	return out
}

// openRing убирает замыкающую вершину: геометрия работает с открытыми кольцами.
func openRing(r []geom.Point) []geom.Point {
	if n := len(r); n > 1 && r[0] == r[n-1] {
		return r[:n-1]
	}
	return r
}
