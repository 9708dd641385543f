package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDocketNumber(t *testing.T) {
	valid := []string{"5.AB12CD", "0.aaaaaa", "9.000000", "3.A1b2C3"}
	for _, d := range valid {
		assert.True(t, ValidDocketNumber(d), d)
	}

	invalid := []string{
		"",
		"5AB12CD",    // no separator
		"55.AB12CD",  // two-digit category
		"5.AB12C",    // five chars
		"5.AB12CDE",  // seven chars
		"A.AB12CD",   // non-digit category
		"5.AB 2CD",   // whitespace
		"5.AB12CD\n", // trailing newline
		"5.AB-2CD",   // punctuation
	}
	for _, d := range invalid {
		assert.False(t, ValidDocketNumber(d), d)
	}
}

func TestDocketCategory(t *testing.T) {
	assert.Equal(t, "5", DocketCategory("5.AB12CD"))
	assert.Equal(t, "0", DocketCategory("0.XYZXYZ"))
}
