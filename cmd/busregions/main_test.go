package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x0FACED/busregions/pkg/config"
	"github.com/0x0FACED/busregions/pkg/logger"
	geojson "github.com/paulmach/go.geojson"
	"gotest.tools/v3/assert"
)

const testBuses = `name,x,y,country,substation_lv,substation_off
west,2,5,US,true,false
east,8,5,US,true,false
sea,15,5,US,false,true
`

const testShapes = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "US"},
   "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]]]}}
]}`

const testOffshore = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "MX"},
   "geometry": {"type": "Polygon", "coordinates": [[[0, -20], [10, -20], [10, -10], [0, -10], [0, -20]]]}}
]}`

func writeTemp(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func readCollection(t *testing.T, path string) *geojson.FeatureCollection {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	assert.NilError(t, err)
	return fc
}

func featureNames(fc *geojson.FeatureCollection) []string {
	var out []string
	for _, f := range fc.Features {
		name, _ := f.PropertyString("name")
		out = append(out, name)
	}
	return out
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input.Buses = writeTemp(t, dir, "buses.csv", testBuses)
	cfg.Input.CountryShapes = writeTemp(t, dir, "countries.geojson", testShapes)
	cfg.Input.OffshoreShapes = writeTemp(t, dir, "offshore.geojson", testOffshore)
	// вложенный каталог создаётся при записи
	out := filepath.Join(dir, "resources", "out")
	cfg.Output.RegionsOnshore = filepath.Join(out, "onshore.geojson")
	cfg.Output.RegionsOffshore = filepath.Join(out, "offshore.geojson")
	cfg.Output.Buses = filepath.Join(out, "buses.csv")
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	assert.NilError(t, run(context.Background(), cfg, logger.NewNop()))

	onshore := readCollection(t, cfg.Output.RegionsOnshore)
	assert.DeepEqual(t, featureNames(onshore), []string{"west", "east"})
	for _, f := range onshore.Features {
		assert.Assert(t, f.Geometry != nil && f.Geometry.IsPolygon())
		country, _ := f.PropertyString("country")
		assert.Equal(t, country, "US")
	}

	// у US нет морской границы, поэтому морской файл - исходные границы
	offshore := readCollection(t, cfg.Output.RegionsOffshore)
	assert.DeepEqual(t, featureNames(offshore), []string{"MX"})
	assert.Assert(t, offshore.Features[0].Geometry.IsPolygon())

	buses, err := os.ReadFile(cfg.Output.Buses)
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(string(buses)), "\n")
	assert.Equal(t, len(lines), 4)
	assert.Equal(t, lines[0], "name,x,y,country,substation_lv,substation_off")
	assert.Equal(t, lines[3], "sea,15,5,US,false,true")
}

func TestRunWithoutBusesOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Buses = ""
	assert.NilError(t, run(context.Background(), cfg, logger.NewNop()))

	_, err := os.Stat(filepath.Join(filepath.Dir(cfg.Output.RegionsOnshore), "buses.csv"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestRunMissingBuses(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.Buses = filepath.Join(t.TempDir(), "nope.csv")

	err := run(context.Background(), cfg, logger.NewNop())
	assert.Assert(t, os.IsNotExist(err), "got %v", err)
	_, err = os.Stat(cfg.Output.RegionsOnshore)
	assert.Assert(t, os.IsNotExist(err))
}

func TestRunMissingCountryShape(t *testing.T) {
	cfg := testConfig(t)
	cfg.Countries = []string{"US", "CA"}

	err := run(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "CA")
}

func TestReadInputOptionalShapes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.StateShapes = ""
	cfg.Input.OffshoreShapes = ""

	in, err := readInput(cfg)
	assert.NilError(t, err)
	assert.Equal(t, len(in.Buses), 3)
	assert.Equal(t, len(in.CountryShapes), 1)
	assert.Assert(t, in.StateShapes != nil)
	assert.Equal(t, len(in.OffshoreShapes), 0)
}

func TestReadInputBadShapes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input.CountryShapes = writeTemp(t, t.TempDir(), "broken.geojson", "{")

	_, err := readInput(cfg)
	assert.Assert(t, err != nil)
}

func TestCompare(t *testing.T) {
	const (
		full   = "../../pkg/config/testdata/default.yaml"
		simple = "../../pkg/config/testdata/test_simple.yaml"
	)

	var out bytes.Buffer
	assert.Equal(t, compare(&out, []string{full, full}), 0)
	assert.Equal(t, strings.TrimSpace(out.String()), "structure matches")

	out.Reset()
	assert.Equal(t, compare(&out, []string{full, simple}), 1)
	assert.Assert(t, out.Len() > 0)
	assert.Assert(t, !strings.Contains(out.String(), "structure matches"))

	out.Reset()
	assert.Equal(t, compare(&out, []string{full}), 2)
	assert.Equal(t, compare(&out, []string{full, "missing.yaml"}), 2)
	assert.Equal(t, out.Len(), 0)
}
