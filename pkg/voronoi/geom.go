package voronoi

import (
	"math"
)

// Vertex - точка на плоскости (сайт или вершина диаграммы)
type Vertex struct {
	X float64
	Y float64
}

// NoVertex - отсутствующая вершина (луч ещё не обрезан)
var NoVertex = Vertex{math.Inf(1), math.Inf(1)}

type vertices []Vertex

func (s vertices) Len() int      { return len(s) }
func (s vertices) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// сортировка по убыванию Y, затем X: сайты снимаются с конца слайса
type verticesByYX struct{ vertices }

func (s verticesByYX) Less(i, j int) bool {
	if s.vertices[i].Y != s.vertices[j].Y {
		return s.vertices[j].Y < s.vertices[i].Y
	}
	return s.vertices[j].X < s.vertices[i].X
}

type EdgeVertex struct {
	Vertex
	Edges []*Edge
}

// Edge - ребро между двумя ячейками. У граничных рёбер RightCell == nil.
type Edge struct {
	LeftCell  *Cell
	RightCell *Cell
	Va        EdgeVertex
	Vb        EdgeVertex
}

func newEdge(leftCell, rightCell *Cell) *Edge {
	return &Edge{
		LeftCell:  leftCell,
		RightCell: rightCell,
		Va:        EdgeVertex{NoVertex, nil},
		Vb:        EdgeVertex{NoVertex, nil},
	}
}

// OtherCell возвращает соседа по ребру или nil.
func (e *Edge) OtherCell(cell *Cell) *Cell {
	switch cell {
	case e.LeftCell:
		return e.RightCell
	case e.RightCell:
		return e.LeftCell
	}
	return nil
}

// Halfedge - ориентированное ребро с точки зрения одной ячейки
type Halfedge struct {
	Cell  *Cell
	Edge  *Edge
	Angle float64
}

type halfedges []*Halfedge

func (s halfedges) Len() int      { return len(s) }
func (s halfedges) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

type halfedgesByAngle struct{ halfedges }

func (s halfedgesByAngle) Less(i, j int) bool { return s.halfedges[i].Angle > s.halfedges[j].Angle }

func newHalfedge(edge *Edge, leftCell, rightCell *Cell) *Halfedge {
	ret := &Halfedge{
		Cell: leftCell,
		Edge: edge,
	}

	// угол прямой "свой сайт -> сайт соседа"; у граничных рёбер соседа нет,
	// берём перпендикуляр к самому ребру
	if rightCell != nil {
		ret.Angle = math.Atan2(rightCell.Site.Y-leftCell.Site.Y, rightCell.Site.X-leftCell.Site.X)
	} else {
		va := edge.Va
		vb := edge.Vb

		if edge.LeftCell == leftCell {
			ret.Angle = math.Atan2(vb.X-va.X, va.Y-vb.Y)
		} else {
			ret.Angle = math.Atan2(va.X-vb.X, vb.Y-va.Y)
		}
	}
	return ret
}

func (h *Halfedge) StartPoint() Vertex {
	if h.Edge.LeftCell == h.Cell {
		return h.Edge.Va.Vertex
	}
	return h.Edge.Vb.Vertex
}

func (h *Halfedge) EndPoint() Vertex {
	if h.Edge.LeftCell == h.Cell {
		return h.Edge.Vb.Vertex
	}
	return h.Edge.Va.Vertex
}

func equalWithEpsilon(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func lessThanWithEpsilon(a, b float64) bool {
	return b-a > 1e-9
}

func greaterThanWithEpsilon(a, b float64) bool {
	return a-b > 1e-9
}
