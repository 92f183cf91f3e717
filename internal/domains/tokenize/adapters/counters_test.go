package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWhitespaceCounter(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t", 0},
		{"hello world", 2},
		{"foo", 1},
		{"  leading and trailing  ", 3},
		{"func main() {\n\tfmt.Println(\"hi\")\n}\n", 5},
		{"a\u00a0b", 2},
		{"日本語 テキスト", 2},
	}
	c := NewWhitespaceCounter()
	for _, tt := range tests {
		got, err := c.Count(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
	assert.Equal(t, SchemeWhitespace, c.Name())
}

func TestWhitespaceCounter_AgreesWithFields(t *testing.T) {
	c := NewWhitespaceCounter()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		got, _ := c.Count(s)
		if want := len(strings.Fields(s)); got != want {
			t.Fatalf("Count(%q) = %d, strings.Fields gives %d", s, got, want)
		}
	})
}

func TestHeuristicCounter(t *testing.T) {
	c := NewHeuristicCounter()
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"  \n", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"  abcdefgh  ", 2},
	}
	for _, tt := range tests {
		got, err := c.Count(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
	assert.Equal(t, SchemeHeuristic, c.Name())
}

func TestCounters_Deterministic(t *testing.T) {
	counters := []interface {
		Count(string) (int, error)
	}{NewWhitespaceCounter(), NewHeuristicCounter()}
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		for _, c := range counters {
			a, _ := c.Count(s)
			b, _ := c.Count(s)
			if a != b || a < 0 {
				t.Fatalf("unstable or negative count for %q: %d vs %d", s, a, b)
			}
		}
	})
}
