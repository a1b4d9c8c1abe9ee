package regions

import (
	"fmt"

	"github.com/0x0FACED/busregions/pkg/usstates"
	"github.com/ctessum/geom"
	"go.uber.org/zap"
)

// pass - один вызов разбиения: граница и индексы шин в Result.Buses.
type pass struct {
	label   string
	kind    Kind
	country string
	shape   geom.Polygonal
	buses   []int
}

func (b *Builder) planCountries(in Input, buses []Bus) ([]pass, error) {
	var passes []pass
	for _, country := range b.cfg.Countries {
		shape, ok := in.CountryShapes[country]
		if !ok {
			return nil, fmt.Errorf("%w: country %q", ErrMissingShape, country)
		}
		passes = append(passes, pass{
			label:   country + "/" + Onshore.String(),
			kind:    Onshore,
			country: country,
			shape:   shape,
			buses:   selectBuses(buses, country, func(bus Bus) bool { return bus.SubstationLV }, nil),
		})

		off, ok := in.OffshoreShapes[country]
		if !ok {
			continue
		}
		passes = append(passes, pass{
			label:   country + "/" + Offshore.String(),
			kind:    Offshore,
			country: country,
			shape:   off,
			buses:   selectBuses(buses, country, func(bus Bus) bool { return bus.SubstationOff }, nil),
		})
	}
	return passes, nil
}

// planStates режет US по штатам. Шины штата получают Country = аббревиатура;
// маска US для морского прохода снимается до этой замены.
func (b *Builder) planStates(in Input, buses []Bus) ([]pass, error) {
	offshore := selectBuses(buses, "US", func(bus Bus) bool { return bus.SubstationOff }, nil)

	var passes []pass
	for _, abbrev := range b.cfg.States {
		name, err := usstates.Name(abbrev)
		if err != nil {
			return nil, err
		}
		shape, ok := in.StateShapes[name]
		if !ok {
			b.log.Debug("[r] Нет границы штата, пропускаем", zap.String("state", abbrev), zap.String("name", name))
			continue
		}
		idx := selectBuses(buses, "US", func(bus Bus) bool { return bus.SubstationLV }, shape)
		passes = append(passes, pass{
			label:   abbrev + "/" + Onshore.String(),
			kind:    Onshore,
			country: abbrev,
			shape:   shape,
			buses:   idx,
		})
		// переименованная шина уже не US и в следующий штат не попадёт
		for _, i := range idx {
			buses[i].Country = abbrev
		}
	}

	if shape, ok := in.OffshoreShapes["US"]; ok {
		passes = append(passes, pass{
			label:   "US/" + Offshore.String(),
			kind:    Offshore,
			country: "US",
			shape:   shape,
			buses:   within(buses, offshore, shape),
		})
	} else {
		b.log.Warn("[r] Нет морской границы US, морские регионы не строим")
	}
	return passes, nil
}

// selectBuses отбирает шины страны по флагу; с inside - только строго внутри границы.
func selectBuses(buses []Bus, country string, flag func(Bus) bool, inside geom.Polygonal) []int {
	var idx []int
	for i, bus := range buses {
		if bus.Country != country || !flag(bus) {
			continue
		}
		idx = append(idx, i)
	}
	if inside != nil {
		idx = within(buses, idx, inside)
	}
	return idx
}

func within(buses []Bus, idx []int, shape geom.Polygonal) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if buses[i].Point().Within(shape) == geom.Inside {
			out = append(out, i)
		}
	}
	return out
}
