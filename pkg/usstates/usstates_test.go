package usstates

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestName(t *testing.T) {
	n, err := Name("ca")
	assert.NilError(t, err)
	assert.Equal(t, n, "California")

	n, err = Name("DC")
	assert.NilError(t, err)
	assert.Equal(t, n, "District of Columbia")
}

func TestNameUnknown(t *testing.T) {
	_, err := Name("XX")
	assert.Assert(t, errors.Is(err, ErrUnknownState))
}

func TestAbbrevRoundTrip(t *testing.T) {
	for _, a := range Abbrevs() {
		n, err := Name(a)
		assert.NilError(t, err)
		back, err := Abbrev(n)
		assert.NilError(t, err)
		assert.Equal(t, back, a)
	}
	assert.Equal(t, len(Abbrevs()), 57)
}
