package ident

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// NumericID returns a string of exactly length decimal digits, uniformly
// sampled from [10^(length-1), 10^length - 1]. It carries no uniqueness
// guarantee; callers that need uniqueness must retry against a unique
// constraint at the store layer.
func NumericID(length int) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	// First digit is nonzero so the value never loses a digit.
	b.WriteByte(byte('1' + rand.Intn(9)))
	for i := 1; i < length; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// Code returns prefix followed by a random numeric id of the given length.
func Code(prefix string, length int) string {
	return prefix + NumericID(length)
}

// Barcode builds a scan target: prefix, the entity id zero-padded to five
// digits, then length random digits.
func Barcode(prefix string, entityID int64, length int) string {
	return fmt.Sprintf("%s%05d%s", prefix, entityID, NumericID(length))
}

// RunID returns a collision-free identifier for sweep reports.
func RunID() string {
	return uuid.NewString()
}
