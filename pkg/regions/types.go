// Package regions builds onshore and offshore bus regions: it groups buses by
// country or state, partitions each boundary shape between its buses and
// collects the rows for the two region files.
package regions

import (
	"errors"

	"github.com/ctessum/geom"
)

var ErrMissingShape = errors.New("regions: missing shape")

// Bus - узел сети с координатами и флагами подстанций.
type Bus struct {
	Name          string
	X, Y          float64
	Country       string
	SubstationLV  bool
	SubstationOff bool
}

func (b Bus) Point() geom.Point {
	return geom.Point{X: b.X, Y: b.Y}
}

// Region - строка выходного файла. Geometry может быть пустой.
type Region struct {
	Name     string
	X, Y     float64
	Geometry geom.Polygonal
	Country  string
}

// Shapes - границы по имени: страна, штат или морская зона.
type Shapes map[string]geom.Polygonal

type Input struct {
	Buses          []Bus
	CountryShapes  Shapes
	StateShapes    Shapes
	OffshoreShapes Shapes
}

type Result struct {
	Onshore  []Region
	Offshore []Region
	// копия входных шин; в режиме штатов Country заменён на аббревиатуру
	Buses []Bus
	// метки проходов, пропущенных из-за ошибки (on_error: skip)
	Skipped []string
}

type Kind int

const (
	Onshore Kind = iota
	Offshore
)

func (k Kind) String() string {
	if k == Offshore {
		return "offshore"
	}
	return "onshore"
}
