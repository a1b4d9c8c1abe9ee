// Package partition splits a boundary polygon into Voronoi regions, one per
// bus location.
package partition

import (
	"errors"
	"fmt"
	"math"

	"github.com/0x0FACED/busregions/pkg/logger"
	"github.com/0x0FACED/busregions/pkg/voronoi"
	"github.com/ctessum/geom"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput    = errors.New("partition: invalid input")
	ErrNoPoints        = fmt.Errorf("%w: no points", ErrInvalidInput)
	ErrInvalidBoundary = fmt.Errorf("%w: invalid boundary", ErrInvalidInput)
)

// DefaultFrameFactor - во сколько размахов облака точек отнесены вспомогательные углы
const DefaultFrameFactor = 3.0

type options struct {
	log         *logger.ZapLogger
	frameFactor float64
}

type Option func(*options)

func WithLogger(l *logger.ZapLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithFrameFactor(f float64) Option {
	return func(o *options) {
		if f > 0 {
			o.frameFactor = f
		}
	}
}

// Partition returns one region per point: the part of boundary that is closer
// to that point than to any other. The i-th region belongs to the i-th point.
//
// A single point gets the boundary itself. Regions may be empty when a cell
// misses the boundary entirely. Cells broken by numerical degeneracy are
// repaired, the boundary never is: an invalid boundary is an error.
func Partition(points []geom.Point, boundary geom.Polygonal, opts ...Option) ([]geom.Polygonal, error) {
	o := options{log: logger.NewNop(), frameFactor: DefaultFrameFactor}
	for _, opt := range opts {
		opt(&o)
	}

	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	for i, p := range points {
		if !finite(p) {
			return nil, fmt.Errorf("%w: point %d is not finite: %v", ErrInvalidInput, i, p)
		}
	}
	if err := Validate(boundary); err != nil {
		return nil, err
	}

	if len(points) == 1 {
		return []geom.Polygonal{boundary}, nil
	}

	sites, bbox := frame(points, boundary.Bounds(), o.frameFactor)
	diagram := voronoi.CreateDiagram(sites, bbox, true, o.log)

	regions := make([]geom.Polygonal, len(points))
	var repaired, clipped, empty int
	for i, p := range points {
		poly := cellPolygon(diagram.Cell(voronoi.Vertex{X: p.X, Y: p.Y}))
		if !IsValid(poly) {
			poly = Repair(poly)
			repaired++
		}
		if len(poly) == 0 {
			regions[i] = geom.Polygon{}
			empty++
			continue
		}
		region, fallback := intersect(poly[0], boundary)
		if fallback {
			clipped++
		}
		if region.Area() == 0 {
			empty++
		}
		regions[i] = region
	}

	o.log.Debug("[p] Разбиение построено",
		zap.Int("points", len(points)),
		zap.Int("repaired", repaired),
		zap.Int("clipped", clipped),
		zap.Int("empty", empty))

	return regions, nil
}

// frame добавляет к точкам четыре угла далеко за облаком, чтобы ячейки всех
// настоящих точек были конечными, и подбирает bbox, покрывающий и рамку, и границу.
func frame(points []geom.Point, bounds *geom.Bounds, factor float64) ([]voronoi.Vertex, voronoi.BoundingBox) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	// вырожденный размах (точки на одной прямой или совпали) берём у другой оси
	xspan, yspan := maxX-minX, maxY-minY
	if xspan == 0 {
		xspan = yspan
	}
	if yspan == 0 {
		yspan = xspan
	}
	if xspan == 0 {
		xspan, yspan = 1, 1
	}

	sites := make([]voronoi.Vertex, 0, len(points)+4)
	for _, p := range points {
		sites = append(sites, voronoi.Vertex{X: p.X, Y: p.Y})
	}
	fxl, fxr := minX-factor*xspan, maxX+factor*xspan
	fyl, fyr := minY-factor*yspan, maxY+factor*yspan
	sites = append(sites,
		voronoi.Vertex{X: fxl, Y: fyl},
		voronoi.Vertex{X: fxl, Y: fyr},
		voronoi.Vertex{X: fxr, Y: fyl},
		voronoi.Vertex{X: fxr, Y: fyr},
	)

	xl, xr := math.Min(fxl, bounds.Min.X), math.Max(fxr, bounds.Max.X)
	yt, yb := math.Min(fyl, bounds.Min.Y), math.Max(fyr, bounds.Max.Y)
	pad := math.Max(xr-xl, yb-yt)
	return sites, voronoi.NewBoundingBox(xl-pad, xr+pad, yt-pad, yb+pad)
}

func cellPolygon(cell *voronoi.Cell) geom.Polygon {
	if cell == nil {
		return geom.Polygon{}
	}
	vs := cell.Vertices()
	ring := make([]geom.Point, 0, len(vs))
	for _, v := range vs {
		ring = append(ring, geom.Point{X: v.X, Y: v.Y})
	}
	ring = compact(ring)
	if len(ring) == 0 {
		return geom.Polygon{}
	}
	return geom.Polygon{counterClockwise(ring)}
}
