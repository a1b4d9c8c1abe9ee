package voronoi

import (
	"sort"

	"github.com/0x0FACED/busregions/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CreateDiagram строит диаграмму Вороного алгоритмом Форчуна.
// Рёбра обрезаются по bbox; closeCells замыкает ячейки вдоль bbox.
// Слайс sites не меняется. Совпадающие сайты дают одну ячейку.
func CreateDiagram(sites []Vertex, bbox BoundingBox, closeCells bool, log *logger.ZapLogger) *Diagram {
	if log == nil {
		log = logger.NewNop()
	}
	v := &Voronoi{
		cellsMap: make(map[Vertex]*Cell, len(sites)),
		Logger:   log,
	}
	trace := log.Enabled(zapcore.DebugLevel)

	log.Debug("[f] Алгоритм Форчуна запущен", zap.Int("sites", len(sites)))

	// копия, отсортированная по убыванию y: следующий сайт снимаем с конца
	queue := make([]Vertex, len(sites))
	copy(queue, sites)
	sort.Sort(verticesByYX{queue})

	pop := func() *Vertex {
		if len(queue) == 0 {
			return nil
		}
		site := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		return &site
	}

	site := pop()
	var prev *Vertex
	var siteEvents, circleEvents int

	for {
		// site event - прямая сканирования дошла до сайта
		// circle event - три дуги сошлись в вершину
		// обрабатываем то, что наступает раньше
		circle := v.firstCircleEvent

		if site != nil && (circle == nil || site.Y < circle.y || (site.Y == circle.y && site.X < circle.x)) {
			if prev == nil || *site != *prev {
				nCell := newCell(*site)
				v.cells = append(v.cells, nCell)
				v.cellsMap[*site] = nCell
				v.addBeachSection(*site)
				prev = site
				siteEvents++
				if trace {
					log.Debug("[f-site] Новая ячейка", zap.Float64("x", site.X), zap.Float64("y", site.Y))
				}
			} else {
				log.Debug("[f-site] Найден дубликат", zap.Float64("x", site.X), zap.Float64("y", site.Y))
			}
			site = pop()
		} else if circle != nil {
			if trace {
				log.Debug("[f-circle] Схлопывание дуги", zap.Float64("x", circle.x), zap.Float64("y", circle.ycenter))
			}
			v.removeBeachSection(circle.arc)
			circleEvents++
		} else {
			break
		}
	}

	v.clipEdges(bbox)

	if closeCells {
		v.closeCells(bbox)
	} else {
		for _, cell := range v.cells {
			cell.prepare()
		}
	}

	v.gatherVertexEdges()

	log.Debug("[f] Алгоритм завершен",
		zap.Int("site_events", siteEvents),
		zap.Int("circle_events", circleEvents),
		zap.Int("cells", len(v.cells)),
		zap.Int("edges", len(v.edges)))

	return &Diagram{Edges: v.edges, Cells: v.cells, cellsMap: v.cellsMap}
}
