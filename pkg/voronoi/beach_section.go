package voronoi

import "math"

// beachSection - дуга пляжной линии
type beachSection struct {
	node        *rbtNode
	site        Vertex
	circleEvent *circleEvent
	edge        *Edge
}

func (s *beachSection) bindToNode(node *rbtNode) {
	s.node = node
}

func (s *beachSection) Node() *rbtNode {
	return s.node
}

type beachSections []*beachSection

func (s *beachSections) appendLeft(b *beachSection) {
	*s = append(*s, nil)
	copy((*s)[1:], (*s)[:len(*s)-1])
	(*s)[0] = b
}

func (s *beachSections) appendRight(b *beachSection) {
	*s = append(*s, b)
}

// leftBreakPoint - X левой точки излома дуги при текущей directrix.
// Формулы перегруппированы ради точности, менять осторожно.
func leftBreakPoint(arc *beachSection, directrix float64) float64 {
	site := arc.site
	rfocx := site.X
	rfocy := site.Y
	pby2 := rfocy - directrix
	// фокус на directrix - вырожденная парабола
	if pby2 == 0 {
		return rfocx
	}

	lArc := arc.Node().previous
	if lArc == nil {
		return math.Inf(-1)
	}
	site = lArc.value.(*beachSection).site
	lfocx := site.X
	lfocy := site.Y
	plby2 := lfocy - directrix
	if plby2 == 0 {
		return lfocx
	}
	hl := lfocx - rfocx
	aby2 := 1/pby2 - 1/plby2
	b := hl / plby2
	if aby2 != 0 {
		return (-b+math.Sqrt(b*b-2*aby2*(hl*hl/(-2*plby2)-lfocy+plby2/2+rfocy-pby2/2)))/aby2 + rfocx
	}
	// обе параболы на одном расстоянии - излом посередине
	return (rfocx + lfocx) / 2
}

func rightBreakPoint(arc *beachSection, directrix float64) float64 {
	rArc := arc.Node().next
	if rArc != nil {
		return leftBreakPoint(rArc.value.(*beachSection), directrix)
	}
	site := arc.site
	if site.Y == directrix {
		return site.X
	}
	return math.Inf(1)
}
