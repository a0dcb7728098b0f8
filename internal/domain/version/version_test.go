package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"17.10", "17.10", 0},
		{"17.9", "17.10", -1},
		{"17.10", "17.9", 1},
		{"1.2.3", "1.2", 1},
		{"1.2", "1.2.0", -1},
		{"", "1.0", -1},
		{"1.0", "", -1},
		{"", "", 0},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, Compare(c.a, c.b), "Compare(%q, %q)", c.a, c.b)
	}
}

func TestCompareFallsBackToLexical(t *testing.T) {
	assert.Equal(t, -1, Compare("abc", "abd"))
	assert.Equal(t, -1, Compare("1.0", "abc"))
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange("17.10", "17.9", "17.11"))
	assert.False(t, InRange("17.10", "17.11", ""))
	assert.False(t, InRange("17.10", "", "17.9"))
	assert.True(t, InRange("17.10", "", ""))
}
