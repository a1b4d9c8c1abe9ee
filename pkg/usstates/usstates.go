// Package usstates maps US state and territory postal abbreviations to the
// names used in state shape files.
package usstates

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownState = errors.New("usstates: unknown state")

var byAbbrev = map[string]string{
	"AL": "Alabama",
	"AK": "Alaska",
	"AZ": "Arizona",
	"AR": "Arkansas",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DE": "Delaware",
	"DC": "District of Columbia",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"IA": "Iowa",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"ME": "Maine",
	"MD": "Maryland",
	"MA": "Massachusetts",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MS": "Mississippi",
	"MO": "Missouri",
	"MT": "Montana",
	"NE": "Nebraska",
	"NV": "Nevada",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NY": "New York",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VT": "Vermont",
	"VA": "Virginia",
	"WA": "Washington",
	"WV": "West Virginia",
	"WI": "Wisconsin",
	"WY": "Wyoming",
	"AS": "American Samoa",
	"GU": "Guam",
	"MP": "Northern Mariana Islands",
	"PR": "Puerto Rico",
	"UM": "United States Minor Outlying Islands",
	"VI": "U.S. Virgin Islands",
}

var byName = func() map[string]string {
	m := make(map[string]string, len(byAbbrev))
	for a, n := range byAbbrev {
		m[strings.ToLower(n)] = a
	}
	return m
}()

// Name returns the full name for a postal abbreviation (case-insensitive).
func Name(abbrev string) (string, error) {
	n, ok := byAbbrev[strings.ToUpper(strings.TrimSpace(abbrev))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, abbrev)
	}
	return n, nil
}

// Abbrev is the inverse of Name.
func Abbrev(name string) (string, error) {
	a, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return a, nil
}

// Abbrevs lists every known abbreviation, sorted.
func Abbrevs() []string {
	out := make([]string, 0, len(byAbbrev))
	for a := range byAbbrev {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
