package voronoi

import "sort"

// Cell - ячейка диаграммы: сайт и его полурёбра, отсортированные по углу
type Cell struct {
	Site      Vertex
	Halfedges []*Halfedge

	// ячейку задело обрезкой по bbox, её надо замкнуть
	closeMe bool
}

func newCell(site Vertex) *Cell {
	return &Cell{Site: site}
}

// prepare выкидывает висячие полурёбра и сортирует оставшиеся.
func (c *Cell) prepare() int {
	kept := c.Halfedges[:0]
	for _, he := range c.Halfedges {
		if he.Edge.Va.Vertex == NoVertex || he.Edge.Vb.Vertex == NoVertex {
			continue
		}
		kept = append(kept, he)
	}
	c.Halfedges = kept

	sort.Sort(halfedgesByAngle{c.Halfedges})
	return len(c.Halfedges)
}

// insertHalfedge вставляет полуребро на позицию i.
func (c *Cell) insertHalfedge(i int, he *Halfedge) {
	c.Halfedges = append(c.Halfedges, nil)
	copy(c.Halfedges[i+1:], c.Halfedges[i:])
	c.Halfedges[i] = he
}

// Vertices - контур замкнутой ячейки, по вершине на полуребро.
func (c *Cell) Vertices() []Vertex {
	ring := make([]Vertex, 0, len(c.Halfedges))
	for _, he := range c.Halfedges {
		ring = append(ring, he.StartPoint())
	}
	return ring
}
