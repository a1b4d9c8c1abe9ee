package geoio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/0x0FACED/busregions/pkg/regions"
	"github.com/ctessum/geom"
	geojson "github.com/paulmach/go.geojson"
	"gotest.tools/v3/assert"
)

func TestReadBuses(t *testing.T) {
	f, err := os.Open("testdata/buses.csv")
	assert.NilError(t, err)
	defer f.Close()

	buses, err := ReadBuses(f)
	assert.NilError(t, err)
	assert.DeepEqual(t, buses, []regions.Bus{
		{Name: "b1", X: 2, Y: 5, Country: "US", SubstationLV: true},
		{Name: "b2", X: 8, Y: 5, Country: "US", SubstationLV: true},
		{Name: "off1", X: 15, Y: 5, Country: "US", SubstationOff: true},
		{Name: "b3", X: 5, Y: -5, Country: "MX", SubstationLV: true},
	})
}

func TestReadBusesErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no country": "name,x,y\nb1,1,2\n",
		"bad x":      "name,x,y,country\nb1,east,2,US\n",
		"bad flag":   "name,x,y,country,substation_lv\nb1,1,2,US,maybe\n",
		"no name":    "name,x,y,country\n,1,2,US\n",
		"short row":  "name,x,y,country\nb1,1,2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadBuses(strings.NewReader(body))
			assert.Assert(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}

func TestWriteBuses(t *testing.T) {
	in := []regions.Bus{
		{Name: "b1", X: -120.5, Y: 37.25, Country: "CA", SubstationLV: true},
		{Name: "off1", X: -124, Y: 40, Country: "US", SubstationOff: true},
	}
	var buf bytes.Buffer
	assert.NilError(t, WriteBuses(&buf, in))
	assert.Equal(t, strings.SplitN(buf.String(), "\n", 2)[0], "name,x,y,country,substation_lv,substation_off")

	out, err := ReadBuses(&buf)
	assert.NilError(t, err)
	assert.DeepEqual(t, out, in)
}

func TestReadShapesGeoJSON(t *testing.T) {
	shapes, err := ReadShapes("testdata/shapes.geojson")
	assert.NilError(t, err)
	assert.Equal(t, len(shapes), 2)

	us, ok := shapes["US"].(geom.Polygon)
	assert.Assert(t, ok)
	assert.Equal(t, len(us), 1)
	assert.Equal(t, len(us[0]), 4)
	assert.Assert(t, math.Abs(us.Area()-100) < 1e-9)

	ca, ok := shapes["CA"].(geom.MultiPolygon)
	assert.Assert(t, ok)
	assert.Equal(t, len(ca), 2)
	assert.Assert(t, math.Abs(ca.Area()-31) < 1e-9, "area %v", ca.Area())
}

func TestReadShapesErrors(t *testing.T) {
	for _, path := range []string{"testdata/duplicate.geojson", "testdata/point.geojson", "testdata/buses.csv"} {
		_, err := ReadShapes(path)
		assert.Assert(t, errors.Is(err, ErrFormat), "%s: got %v", path, err)
	}
	_, err := ReadShapes("testdata/nope.geojson")
	assert.Assert(t, errors.Is(err, os.ErrNotExist))
}

func decode(t *testing.T, buf *bytes.Buffer) *geojson.FeatureCollection {
	t.Helper()
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	assert.NilError(t, err)
	return fc
}

func TestWriteRegions(t *testing.T) {
	// оболочка и дыра одним набором колец, обе против часовой
	withHole := geom.Polygon{
		{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}},
	}
	apart := geom.Polygon{
		{{X: 20, Y: 0}, {X: 21, Y: 0}, {X: 21, Y: 1}, {X: 20, Y: 1}},
		{{X: 30, Y: 0}, {X: 30, Y: 1}, {X: 31, Y: 1}, {X: 31, Y: 0}},
	}
	rs := []regions.Region{
		{Name: "a", X: 1, Y: 1, Geometry: withHole, Country: "US"},
		{Name: "b", X: 20.5, Y: 0.5, Geometry: apart, Country: "US"},
		{Name: "c", X: 50, Y: 50, Geometry: geom.Polygon{}, Country: "CA"},
	}

	var buf bytes.Buffer
	assert.NilError(t, WriteRegions(&buf, rs))
	fc := decode(t, &buf)
	assert.Equal(t, len(fc.Features), 3)

	a := fc.Features[0]
	assert.Equal(t, a.Properties["name"], "a")
	assert.Equal(t, a.Properties["x"], 1.0)
	assert.Equal(t, a.Properties["country"], "US")
	assert.Assert(t, a.Geometry.IsPolygon())
	assert.Equal(t, len(a.Geometry.Polygon), 2)
	shell, hole := a.Geometry.Polygon[0], a.Geometry.Polygon[1]
	assert.Equal(t, len(shell), 5)
	assert.DeepEqual(t, shell[0], shell[4])
	assert.Assert(t, coordsArea(shell) > 0)
	assert.Assert(t, coordsArea(hole) < 0)
	assert.Assert(t, math.Abs(coordsArea(hole)+4) < 1e-9)

	b := fc.Features[1]
	assert.Assert(t, b.Geometry.IsMultiPolygon())
	assert.Equal(t, len(b.Geometry.MultiPolygon), 2)
	for _, p := range b.Geometry.MultiPolygon {
		assert.Equal(t, len(p), 1)
		assert.Assert(t, coordsArea(p[0]) > 0)
	}

	c := fc.Features[2]
	assert.Assert(t, c.Geometry == nil)
	assert.Equal(t, c.Properties["country"], "CA")
}

func TestWriteRegionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, WriteRegions(&buf, nil))
	assert.Equal(t, len(decode(t, &buf).Features), 0)
}

func TestWriteShapes(t *testing.T) {
	shapes, err := ReadShapes("testdata/shapes.geojson")
	assert.NilError(t, err)

	var buf bytes.Buffer
	assert.NilError(t, WriteShapes(&buf, shapes))
	fc := decode(t, &buf)
	assert.Equal(t, len(fc.Features), 2)
	assert.Equal(t, fc.Features[0].Properties["name"], "CA")
	assert.Assert(t, fc.Features[0].Geometry.IsMultiPolygon())
	assert.Equal(t, len(fc.Features[0].Geometry.MultiPolygon[1]), 2)
	assert.Equal(t, fc.Features[1].Properties["name"], "US")
	assert.Assert(t, fc.Features[1].Geometry.IsPolygon())
}

func coordsArea(ring [][]float64) float64 {
	var s float64
	for i := 0; i+1 < len(ring); i++ {
		s += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return s / 2
}
