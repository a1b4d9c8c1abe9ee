package voronoi

import (
	"fmt"
	"math"

	"github.com/0x0FACED/busregions/pkg/logger"
	"go.uber.org/zap"
)

// Основная структура алгоритма Форчуна
type Voronoi struct {
	// ячейки диаграммы Вороного
	cells []*Cell
	// ребра диаграммы Вороного
	edges []*Edge

	// мапа для быстрого доступа к ячейке по координатам сайта
	cellsMap map[Vertex]*Cell

	// пляжная линия, дуги слева направо
	beachline rbt
	// события круга, упорядочены по y
	circleEvents rbt
	// ближайшее событие круга
	firstCircleEvent *circleEvent

	Logger *logger.ZapLogger
}

// Diagram - результат построения
type Diagram struct {
	Cells []*Cell
	Edges []*Edge

	cellsMap map[Vertex]*Cell
}

// Cell возвращает ячейку сайта или nil, если такого сайта не было.
// Для совпадающих сайтов ячейка одна.
func (d *Diagram) Cell(site Vertex) *Cell {
	return d.cellsMap[site]
}

func (s *Voronoi) cell(site Vertex) *Cell {
	ret := s.cellsMap[site]
	if ret == nil {
		panic(fmt.Sprintf("voronoi: no cell for site %v", site))
	}
	return ret
}

// Создание ребра между двумя ячейками
func (s *Voronoi) createEdge(leftCell, rightCell *Cell, va, vb Vertex) *Edge {
	edge := newEdge(leftCell, rightCell)
	s.edges = append(s.edges, edge)
	if va != NoVertex {
		s.setEdgeStartpoint(edge, leftCell, rightCell, va)
	}
	if vb != NoVertex {
		s.setEdgeEndpoint(edge, leftCell, rightCell, vb)
	}

	leftCell.Halfedges = append(leftCell.Halfedges, newHalfedge(edge, leftCell, rightCell))
	rightCell.Halfedges = append(rightCell.Halfedges, newHalfedge(edge, rightCell, leftCell))
	return edge
}

func (s *Voronoi) createBorderEdge(leftCell *Cell, va, vb Vertex) *Edge {
	edge := newEdge(leftCell, nil)
	edge.Va.Vertex = va
	edge.Vb.Vertex = vb

	s.edges = append(s.edges, edge)
	return edge
}

func (s *Voronoi) setEdgeStartpoint(edge *Edge, leftCell, rightCell *Cell, vertex Vertex) {
	if edge.Va.Vertex == NoVertex && edge.Vb.Vertex == NoVertex {
		edge.Va.Vertex = vertex
		edge.LeftCell = leftCell
		edge.RightCell = rightCell
	} else if edge.LeftCell == rightCell {
		edge.Vb.Vertex = vertex
	} else {
		edge.Va.Vertex = vertex
	}
}

func (s *Voronoi) setEdgeEndpoint(edge *Edge, leftCell, rightCell *Cell, vertex Vertex) {
	s.setEdgeStartpoint(edge, rightCell, leftCell, vertex)
}

func (s *Voronoi) detachBeachSection(arc *beachSection) {
	s.detachCircleEvent(arc)
	s.beachline.removeNode(arc.node)
}

// removeBeachSection обрабатывает событие круга: дуга схлопывается в вершину.
func (s *Voronoi) removeBeachSection(bs *beachSection) {
	circle := bs.circleEvent
	x := circle.x
	y := circle.ycenter
	vertex := Vertex{x, y}
	previous := bs.node.previous
	next := bs.node.next
	disappearing := beachSections{bs}

	s.detachBeachSection(bs)

	// соседние дуги с тем же центром круга исчезают вместе с этой
	lArc := previous.value.(*beachSection)
	for lArc.circleEvent != nil &&
		math.Abs(x-lArc.circleEvent.x) < 1e-9 &&
		math.Abs(y-lArc.circleEvent.ycenter) < 1e-9 {

		previous = lArc.node.previous
		disappearing.appendLeft(lArc)
		s.detachBeachSection(lArc)
		lArc = previous.value.(*beachSection)
	}

	disappearing.appendLeft(lArc)
	s.detachCircleEvent(lArc)

	rArc := next.value.(*beachSection)
	for rArc.circleEvent != nil &&
		math.Abs(x-rArc.circleEvent.x) < 1e-9 &&
		math.Abs(y-rArc.circleEvent.ycenter) < 1e-9 {

		next = rArc.node.next
		disappearing.appendRight(rArc)
		s.detachBeachSection(rArc)
		rArc = next.value.(*beachSection)
	}

	disappearing.appendRight(rArc)
	s.detachCircleEvent(rArc)

	nArcs := len(disappearing)
	for iArc := 1; iArc < nArcs; iArc++ {
		rArc = disappearing[iArc]
		lArc = disappearing[iArc-1]
		s.setEdgeStartpoint(rArc.edge, s.cell(lArc.site), s.cell(rArc.site), vertex)
	}

	// крайние дуги теперь соседи - новое ребро между ними
	lArc = disappearing[0]
	rArc = disappearing[nArcs-1]
	rArc.edge = s.createEdge(s.cell(lArc.site), s.cell(rArc.site), NoVertex, vertex)

	s.attachCircleEvent(lArc)
	s.attachCircleEvent(rArc)
}

// addBeachSection обрабатывает событие точки: под сайтом появляется новая дуга.
func (s *Voronoi) addBeachSection(site Vertex) {
	x := site.X
	directrix := site.Y

	// ищем дугу (или излом между дугами) прямо над сайтом
	var lNode, rNode *rbtNode
	var dxl, dxr float64
	node := s.beachline.root

	for node != nil {
		nodeArc := node.value.(*beachSection)
		dxl = leftBreakPoint(nodeArc, directrix) - x
		if dxl > 1e-9 {
			node = node.left
			continue
		}
		dxr = x - rightBreakPoint(nodeArc, directrix)
		if dxr > 1e-9 {
			if node.right == nil {
				lNode = node
				break
			}
			node = node.right
			continue
		}
		switch {
		case dxl > -1e-9:
			// попали в левый излом
			lNode = node.previous
			rNode = node
		case dxr > -1e-9:
			// попали в правый излом
			lNode = node
			rNode = node.next
		default:
			// посреди дуги
			lNode = node
			rNode = node
		}
		break
	}

	var lArc, rArc *beachSection
	if lNode != nil {
		lArc = lNode.value.(*beachSection)
	}
	if rNode != nil {
		rArc = rNode.value.(*beachSection)
	}

	newArc := &beachSection{site: site}
	if lArc == nil {
		s.beachline.insertSuccessor(nil, newArc)
	} else {
		s.beachline.insertSuccessor(lArc.node, newArc)
	}

	// первая дуга
	if lArc == nil && rArc == nil {
		return
	}

	// сайт разрезал существующую дугу надвое
	if lArc == rArc {
		s.detachCircleEvent(lArc)

		rArc = &beachSection{site: lArc.site}
		s.beachline.insertSuccessor(newArc.node, rArc)

		newArc.edge = s.createEdge(s.cell(lArc.site), s.cell(newArc.site), NoVertex, NoVertex)
		rArc.edge = newArc.edge

		s.attachCircleEvent(lArc)
		s.attachCircleEvent(rArc)
		return
	}

	// новая дуга справа от всех (сайты на одной горизонтали)
	if lArc != nil && rArc == nil {
		newArc.edge = s.createEdge(s.cell(lArc.site), s.cell(newArc.site), NoVertex, NoVertex)
		return
	}

	// сайт точно под изломом: излом становится вершиной
	s.detachCircleEvent(lArc)
	s.detachCircleEvent(rArc)

	leftSite := lArc.site
	ax := leftSite.X
	ay := leftSite.Y
	bx := site.X - ax
	by := site.Y - ay
	rightSite := rArc.site
	cx := rightSite.X - ax
	cy := rightSite.Y - ay
	d := 2 * (bx*cy - by*cx)
	hb := bx*bx + by*by
	hc := cx*cx + cy*cy
	vertex := Vertex{(cy*hb-by*hc)/d + ax, (bx*hc-cx*hb)/d + ay}

	lCell := s.cell(leftSite)
	cell := s.cell(site)
	rCell := s.cell(rightSite)

	s.setEdgeStartpoint(rArc.edge, lCell, rCell, vertex)

	newArc.edge = s.createEdge(lCell, cell, NoVertex, vertex)
	rArc.edge = s.createEdge(cell, rCell, NoVertex, vertex)

	s.attachCircleEvent(lArc)
	s.attachCircleEvent(rArc)
}

type circleEvent struct {
	node    *rbtNode
	site    Vertex
	arc     *beachSection
	x       float64
	y       float64
	ycenter float64
}

func (s *circleEvent) bindToNode(node *rbtNode) {
	s.node = node
}

func (s *circleEvent) Node() *rbtNode {
	return s.node
}

// attachCircleEvent ставит в очередь схлопывание дуги, если соседи сходятся.
func (s *Voronoi) attachCircleEvent(arc *beachSection) {
	lArc := arc.node.previous
	rArc := arc.node.next
	if lArc == nil || rArc == nil {
		return
	}
	leftSite := lArc.value.(*beachSection).site
	cSite := arc.site
	rightSite := rArc.value.(*beachSection).site

	if leftSite == rightSite {
		return
	}

	bx := cSite.X
	by := cSite.Y
	ax := leftSite.X - bx
	ay := leftSite.Y - by
	cx := rightSite.X - bx
	cy := rightSite.Y - by

	// изломы расходятся - круга не будет
	d := 2 * (ax*cy - ay*cx)
	if d >= -2e-12 {
		return
	}

	ha := ax*ax + ay*ay
	hc := cx*cx + cy*cy
	x := (cy*ha - ay*hc) / d
	y := (ax*hc - cx*ha) / d
	ycenter := y + by

	event := &circleEvent{
		arc:     arc,
		site:    cSite,
		x:       x + bx,
		y:       ycenter + math.Sqrt(x*x+y*y),
		ycenter: ycenter,
	}
	arc.circleEvent = event

	var predecessor *rbtNode
	node := s.circleEvents.root
	for node != nil {
		nodeValue := node.value.(*circleEvent)
		if event.y < nodeValue.y || (event.y == nodeValue.y && event.x <= nodeValue.x) {
			if node.left == nil {
				predecessor = node.previous
				break
			}
			node = node.left
		} else {
			if node.right == nil {
				predecessor = node
				break
			}
			node = node.right
		}
	}
	s.circleEvents.insertSuccessor(predecessor, event)
	if predecessor == nil {
		s.firstCircleEvent = event
	}
}

func (s *Voronoi) detachCircleEvent(arc *beachSection) {
	circle := arc.circleEvent
	if circle == nil {
		return
	}
	if circle.node.previous == nil {
		if circle.node.next != nil {
			s.firstCircleEvent = circle.node.next.value.(*circleEvent)
		} else {
			s.firstCircleEvent = nil
		}
	}
	s.circleEvents.removeNode(circle.node)
	arc.circleEvent = nil
}

// BoundingBox - прямоугольник обрезки. Yt - меньший y, Yb - больший.
type BoundingBox struct {
	Xl, Xr, Yt, Yb float64
}

func NewBoundingBox(xl, xr, yt, yb float64) BoundingBox {
	return BoundingBox{xl, xr, yt, yb}
}

// connectEdge достраивает луч до границы bbox.
// false - ребро целиком вне bbox.
func connectEdge(edge *Edge, bbox BoundingBox) bool {
	vb := edge.Vb.Vertex
	if vb != NoVertex {
		return true
	}

	va := edge.Va.Vertex
	xl := bbox.Xl
	xr := bbox.Xr
	yt := bbox.Yt
	yb := bbox.Yb
	lSite := edge.LeftCell.Site
	rSite := edge.RightCell.Site
	lx := lSite.X
	ly := lSite.Y
	rx := rSite.X
	ry := rSite.Y
	fx := (lx + rx) / 2
	fy := (ly + ry) / 2

	edge.LeftCell.closeMe = true
	edge.RightCell.closeMe = true

	var fm, fb float64
	if !equalWithEpsilon(ry, ly) {
		fm = (lx - rx) / (ry - ly)
		fb = fy - fm*fx
	}

	switch {
	case equalWithEpsilon(ry, ly):
		// вертикальный биссектор
		if fx < xl || fx >= xr {
			return false
		}
		if lx > rx {
			if va == NoVertex {
				va = Vertex{fx, yt}
			} else if va.Y >= yb {
				return false
			}
			vb = Vertex{fx, yb}
		} else {
			if va == NoVertex {
				va = Vertex{fx, yb}
			} else if va.Y < yt {
				return false
			}
			vb = Vertex{fx, yt}
		}
	case fm < -1 || fm > 1:
		// крутой биссектор, режем по верху/низу
		if lx > rx {
			if va == NoVertex {
				va = Vertex{(yt - fb) / fm, yt}
			} else if va.Y >= yb {
				return false
			}
			vb = Vertex{(yb - fb) / fm, yb}
		} else {
			if va == NoVertex {
				va = Vertex{(yb - fb) / fm, yb}
			} else if va.Y < yt {
				return false
			}
			vb = Vertex{(yt - fb) / fm, yt}
		}
	default:
		// пологий биссектор, режем по бокам
		if ly < ry {
			if va == NoVertex {
				va = Vertex{xl, fm*xl + fb}
			} else if va.X >= xr {
				return false
			}
			vb = Vertex{xr, fm*xr + fb}
		} else {
			if va == NoVertex {
				va = Vertex{xr, fm*xr + fb}
			} else if va.X < xl {
				return false
			}
			vb = Vertex{xl, fm*xl + fb}
		}
	}
	edge.Va.Vertex = va
	edge.Vb.Vertex = vb
	return true
}

// clipEdge - отсечение Лианга-Барски по bbox.
func clipEdge(edge *Edge, bbox BoundingBox) bool {
	ax := edge.Va.X
	ay := edge.Va.Y
	dx := edge.Vb.X - ax
	dy := edge.Vb.Y - ay
	t0 := 0.0
	t1 := 1.0

	// p*t <= q для каждой стороны
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	if !clip(-dx, ax-bbox.Xl) ||
		!clip(dx, bbox.Xr-ax) ||
		!clip(-dy, ay-bbox.Yt) ||
		!clip(dy, bbox.Yb-ay) {
		return false
	}

	if t0 > 0 {
		edge.Va.Vertex = Vertex{ax + t0*dx, ay + t0*dy}
	}
	if t1 < 1 {
		edge.Vb.Vertex = Vertex{ax + t1*dx, ay + t1*dy}
	}

	if t0 > 0 || t1 < 1 {
		edge.LeftCell.closeMe = true
		if edge.RightCell != nil {
			edge.RightCell.closeMe = true
		}
	}

	return true
}

func (s *Voronoi) clipEdges(bbox BoundingBox) {
	kept := s.edges[:0]
	for _, edge := range s.edges {
		if !connectEdge(edge, bbox) || !clipEdge(edge, bbox) ||
			(math.Abs(edge.Va.X-edge.Vb.X) < 1e-9 && math.Abs(edge.Va.Y-edge.Vb.Y) < 1e-9) {
			edge.Va.Vertex = NoVertex
			edge.Vb.Vertex = NoVertex
			continue
		}
		kept = append(kept, edge)
	}
	s.edges = kept
}

// стороны bbox в порядке обхода при замыкании ячейки
const (
	sideLeft = iota
	sideBottom
	sideRight
	sideTop
	sideNone = -1
)

func sideOf(v Vertex, bbox BoundingBox) int {
	switch {
	case equalWithEpsilon(v.X, bbox.Xl) && lessThanWithEpsilon(v.Y, bbox.Yb):
		return sideLeft
	case equalWithEpsilon(v.Y, bbox.Yb) && lessThanWithEpsilon(v.X, bbox.Xr):
		return sideBottom
	case equalWithEpsilon(v.X, bbox.Xr) && greaterThanWithEpsilon(v.Y, bbox.Yt):
		return sideRight
	case equalWithEpsilon(v.Y, bbox.Yt) && greaterThanWithEpsilon(v.X, bbox.Xl):
		return sideTop
	}
	return sideNone
}

// borderStep - конец очередного куска границы вдоль стороны side
// и признак того, что дошли до вершины vz.
func borderStep(side int, vz Vertex, bbox BoundingBox) (Vertex, bool) {
	switch side {
	case sideLeft:
		if equalWithEpsilon(vz.X, bbox.Xl) {
			return Vertex{bbox.Xl, vz.Y}, true
		}
		return Vertex{bbox.Xl, bbox.Yb}, false
	case sideBottom:
		if equalWithEpsilon(vz.Y, bbox.Yb) {
			return Vertex{vz.X, bbox.Yb}, true
		}
		return Vertex{bbox.Xr, bbox.Yb}, false
	case sideRight:
		if equalWithEpsilon(vz.X, bbox.Xr) {
			return Vertex{bbox.Xr, vz.Y}, true
		}
		return Vertex{bbox.Xr, bbox.Yt}, false
	default:
		if equalWithEpsilon(vz.Y, bbox.Yt) {
			return Vertex{vz.X, bbox.Yt}, true
		}
		return Vertex{bbox.Xl, bbox.Yt}, false
	}
}

// closeCells замыкает обрезанные ячейки граничными рёбрами вдоль bbox.
func (s *Voronoi) closeCells(bbox BoundingBox) {
	for _, cell := range s.cells {
		if cell.prepare() == 0 || !cell.closeMe {
			continue
		}

		iLeft := 0
		for iLeft < len(cell.Halfedges) {
			va := cell.Halfedges[iLeft].EndPoint()
			vz := cell.Halfedges[(iLeft+1)%len(cell.Halfedges)].StartPoint()

			if math.Abs(va.X-vz.X) >= 1e-9 || math.Abs(va.Y-vz.Y) >= 1e-9 {
				side := sideOf(va, bbox)
				closed := false
				// максимум полный круг и ещё три стороны
				for step := 0; step < 8 && side != sideNone; step++ {
					vb, last := borderStep(side, vz, bbox)
					edge := s.createBorderEdge(cell, va, vb)
					iLeft++
					cell.insertHalfedge(iLeft, newHalfedge(edge, cell, nil))
					if last {
						closed = true
						break
					}
					va = vb
					side = (side + 1) % 4
				}
				if !closed {
					s.Logger.Error("[f-close] Не удалось замкнуть ячейку", zap.Any("site", cell.Site), zap.Any("va", va), zap.Any("vz", vz))
					break
				}
			}
			iLeft++
		}
		cell.closeMe = false
	}
}

// gatherVertexEdges связывает вершины с рёбрами, которые в них сходятся.
func (s *Voronoi) gatherVertexEdges() {
	vertexEdgeMap := make(map[Vertex][]*Edge)

	for _, edge := range s.edges {
		vertexEdgeMap[edge.Va.Vertex] = append(vertexEdgeMap[edge.Va.Vertex], edge)
		vertexEdgeMap[edge.Vb.Vertex] = append(vertexEdgeMap[edge.Vb.Vertex], edge)
	}

	for vertex, edgeSlice := range vertexEdgeMap {
		for _, edge := range edgeSlice {
			if vertex == edge.Va.Vertex {
				edge.Va.Edges = edgeSlice
			}
			if vertex == edge.Vb.Vertex {
				edge.Vb.Edges = edgeSlice
			}
		}
	}
}
