package ident

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

func TestNumericID(t *testing.T) {
	testCases := []struct {
		name   string
		length int
	}{
		{name: "single digit", length: 1},
		{name: "typical card suffix", length: 4},
		{name: "card number body", length: 6},
		{name: "long", length: 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Random output: sample repeatedly to catch length drift.
			for i := 0; i < 200; i++ {
				id := NumericID(tc.length)
				assert.Len(t, id, tc.length)
				assert.Regexp(t, digitsRe, id)
				assert.NotEqual(t, byte('0'), id[0], "leading digit must be nonzero")
			}
		})
	}

	t.Run("non-positive length", func(t *testing.T) {
		assert.Equal(t, "", NumericID(0))
		assert.Equal(t, "", NumericID(-3))
	})
}

func TestCode(t *testing.T) {
	code := Code("RK-", 6)
	assert.Regexp(t, `^RK-[1-9][0-9]{5}$`, code)
}

func TestBarcode(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		entityID int64
		length   int
		pattern  string
		total    int
	}{
		{name: "small entity id", prefix: "RK", entityID: 42, length: 4, pattern: `^RK00042[0-9]{4}$`, total: 11},
		{name: "five digit entity id", prefix: "RK", entityID: 99999, length: 4, pattern: `^RK99999[0-9]{4}$`, total: 11},
		{name: "other prefix", prefix: "NM", entityID: 7, length: 6, pattern: `^NM00007[0-9]{6}$`, total: 13},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			barcode := Barcode(tc.prefix, tc.entityID, tc.length)
			assert.Regexp(t, tc.pattern, barcode)
			assert.Len(t, barcode, tc.total)
		})
	}
}

func TestRunID(t *testing.T) {
	a, b := RunID(), RunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
