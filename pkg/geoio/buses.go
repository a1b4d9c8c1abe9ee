// Package geoio reads bus tables and boundary shapes and writes region files.
package geoio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0x0FACED/busregions/pkg/regions"
)

var ErrFormat = errors.New("geoio: bad format")

var busColumns = []string{"name", "x", "y", "country", "substation_lv", "substation_off"}

// ReadBuses reads a bus table with a header row. name, x, y and country are
// required, the substation flags default to false. Column order is free.
func ReadBuses(r io.Reader) ([]regions.Bus, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: buses header: %v", ErrFormat, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range busColumns[:4] {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: buses: no %q column", ErrFormat, name)
		}
	}

	var buses []regions.Bus
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: buses line %d: %v", ErrFormat, line, err)
		}
		bus, err := parseBus(rec, col)
		if err != nil {
			return nil, fmt.Errorf("%w: buses line %d: %v", ErrFormat, line, err)
		}
		buses = append(buses, bus)
	}
	return buses, nil
}

func parseBus(rec []string, col map[string]int) (regions.Bus, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		b   = regions.Bus{Name: field("name"), Country: field("country")}
		err error
	)
	if b.Name == "" {
		return b, errors.New("empty name")
	}
	if b.X, err = strconv.ParseFloat(field("x"), 64); err != nil {
		return b, fmt.Errorf("x: %w", err)
	}
	if b.Y, err = strconv.ParseFloat(field("y"), 64); err != nil {
		return b, fmt.Errorf("y: %w", err)
	}
	if b.SubstationLV, err = parseFlag(field("substation_lv")); err != nil {
		return b, fmt.Errorf("substation_lv: %w", err)
	}
	if b.SubstationOff, err = parseFlag(field("substation_off")); err != nil {
		return b, fmt.Errorf("substation_off: %w", err)
	}
	return b, nil
}

func parseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// WriteBuses пишет таблицу шин в том же формате, что читает ReadBuses.
func WriteBuses(w io.Writer, buses []regions.Bus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(busColumns); err != nil {
		return err
	}
	for _, b := range buses {
		rec := []string{
			b.Name,
			strconv.FormatFloat(b.X, 'g', -1, 64),
			strconv.FormatFloat(b.Y, 'g', -1, 64),
			b.Country,
			strconv.FormatBool(b.SubstationLV),
			strconv.FormatBool(b.SubstationOff),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
