package voronoi_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/0x0FACED/busregions/pkg/voronoi"
	"gotest.tools/v3/assert"
)

func verifyDiagram(t *testing.T, diagram *voronoi.Diagram, edgesCount, cellsCount, perCellCount int) {
	t.Helper()
	assert.Equal(t, len(diagram.Edges), edgesCount)
	assert.Equal(t, len(diagram.Cells), cellsCount)

	if perCellCount > 0 {
		for _, cell := range diagram.Cells {
			assert.Equal(t, len(cell.Halfedges), perCellCount, "cell %v", cell.Site)
		}
	}
}

func TestTwoPoints(t *testing.T) {
	sites := []voronoi.Vertex{
		{X: 4, Y: 5},
		{X: 6, Y: 5},
	}
	bbox := voronoi.NewBoundingBox(0, 10, 0, 10)

	verifyDiagram(t, voronoi.CreateDiagram(sites, bbox, true, nil), 7, 2, 4)
	verifyDiagram(t, voronoi.CreateDiagram(sites, bbox, false, nil), 1, 2, 1)
}

func TestThreePoints(t *testing.T) {
	sites := []voronoi.Vertex{
		{X: 4, Y: 5},
		{X: 6, Y: 5},
		{X: 5, Y: 8},
	}
	bbox := voronoi.NewBoundingBox(0, 10, 0, 10)

	verifyDiagram(t, voronoi.CreateDiagram(sites, bbox, true, nil), 10, 3, -1)
	verifyDiagram(t, voronoi.CreateDiagram(sites, bbox, false, nil), 3, 3, 2)
}

func TestHorizontal(t *testing.T) {
	sites := make([]voronoi.Vertex, 0, 100)
	for i := 0; i < 100; i++ {
		sites = append(sites, voronoi.Vertex{X: float64(i), Y: 1})
	}
	verifyDiagram(t, voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 100, 0, 100), true, nil), 301, 100, 4)
}

func TestVertical(t *testing.T) {
	sites := make([]voronoi.Vertex, 0, 100)
	for i := 0; i < 100; i++ {
		sites = append(sites, voronoi.Vertex{X: 1, Y: float64(i)})
	}
	verifyDiagram(t, voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 100, 0, 100), true, nil), 301, 100, 4)
}

func TestSitesNotReordered(t *testing.T) {
	sites := []voronoi.Vertex{{X: 9, Y: 9}, {X: 1, Y: 1}, {X: 5, Y: 2}}
	want := append([]voronoi.Vertex(nil), sites...)

	voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 10, 0, 10), true, nil)
	assert.DeepEqual(t, sites, want)
}

func TestDuplicateSites(t *testing.T) {
	sites := []voronoi.Vertex{{X: 2, Y: 2}, {X: 8, Y: 8}, {X: 2, Y: 2}}
	d := voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 10, 0, 10), true, nil)

	assert.Equal(t, len(d.Cells), 2)
	assert.Assert(t, d.Cell(voronoi.Vertex{X: 2, Y: 2}) != nil)
	assert.Assert(t, d.Cell(voronoi.Vertex{X: 5, Y: 5}) == nil)
}

func TestClosedCellsAreRings(t *testing.T) {
	r := rand.New(rand.NewSource(1234567))
	sites := make([]voronoi.Vertex, 200)
	for i := range sites {
		sites[i] = voronoi.Vertex{X: r.Float64() * 100, Y: r.Float64() * 100}
	}
	d := voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 100, 0, 100), true, nil)

	assert.Equal(t, len(d.Cells), len(sites))
	for _, cell := range d.Cells {
		n := len(cell.Halfedges)
		assert.Assert(t, n >= 3, "cell %v has %d halfedges", cell.Site, n)
		for i, he := range cell.Halfedges {
			end := he.EndPoint()
			next := cell.Halfedges[(i+1)%n].StartPoint()
			assert.Assert(t, abs(end.X-next.X) < 1e-9 && abs(end.Y-next.Y) < 1e-9,
				"cell %v open between halfedges %d and %d", cell.Site, i, (i+1)%n)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func BenchmarkCreateDiagram(b *testing.B) {
	r := rand.New(rand.NewSource(1234567))
	sites := make([]voronoi.Vertex, 1000)
	for j := range sites {
		sites[j] = voronoi.Vertex{X: r.Float64() * 100, Y: r.Float64() * 100}
	}
	bbox := voronoi.NewBoundingBox(0, 100, 0, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		voronoi.CreateDiagram(sites, bbox, true, nil)
	}
}

func ExampleCreateDiagram() {
	sites := []voronoi.Vertex{
		{X: 86, Y: 59},
		{X: 646, Y: 347},
		{X: 646, Y: 59},
		{X: 86, Y: 347},
	}
	d := voronoi.CreateDiagram(sites, voronoi.NewBoundingBox(0, 800, 0, 450), true, nil)
	for i, cell := range d.Cells {
		fmt.Printf("%d:\n%+v\n", i, cell.Vertices())
	}
	// Output:
	// 0:
	// [{X:0 Y:203} {X:366 Y:203} {X:366 Y:0} {X:0 Y:0}]
	// 1:
	// [{X:366 Y:0} {X:366 Y:203} {X:800 Y:203} {X:800 Y:0}]
	// 2:
	// [{X:366 Y:450} {X:366 Y:203} {X:0 Y:203} {X:0 Y:450}]
	// 3:
	// [{X:366 Y:203} {X:366 Y:450} {X:800 Y:450} {X:800 Y:203}]
}
