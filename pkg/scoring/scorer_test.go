package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{"identical", "bashir", "bashir", 1.0, 1.0},
		{"close variant scores high", "bashir", "baasyir", 0.8, 1.0},
		{"shared prefix boosts", "abdullah", "abdul", 0.9, 1.0},
		{"unrelated scores low", "bashir", "wijaya", 0.0, 0.6},
		{"empty side scores zero", "bashir", "", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.JaroWinkler(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestTokenSimilarity(t *testing.T) {
	s := NewScorer()

	t.Run("case insensitive exact token", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TokenSimilarity("Abu BAKAR", "bakar ali"))
	})

	t.Run("best pair wins over word order", func(t *testing.T) {
		ab := s.TokenSimilarity("Bakar Abu", "Abu Bakar")
		assert.Equal(t, 1.0, ab)
	})

	t.Run("single shared token is enough", func(t *testing.T) {
		got := s.TokenSimilarity("Ahmad Wijaya", "Budi Wijaya")
		assert.Equal(t, 1.0, got)
	})

	t.Run("empty strings score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.TokenSimilarity("", "abu"))
		assert.Equal(t, 0.0, s.TokenSimilarity("abu", "  "))
	})
}

func TestSequenceRatio(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "DTTOT/P-01/2023", "DTTOT/P-01/2023", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abc", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// 2*M/(la+lb): "abcd" vs "abxd" share "ab" and "d" -> 6/8.
		{"partial overlap", "abcd", "abxd", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.SequenceRatio(tt.a, tt.b), 1e-9)
		})
	}

	t.Run("near-identical densus codes clear the upsert threshold", func(t *testing.T) {
		ratio := s.SequenceRatio("DTTOT/P-01/2023/No 42", "DTTOT/P-01/2023/No 42 ")
		assert.Greater(t, ratio, 0.95)
	})

	t.Run("different codes stay under the threshold", func(t *testing.T) {
		ratio := s.SequenceRatio("DTTOT/P-01/2023/No 42", "DTTOT/P-09/2019/No 7")
		assert.Less(t, ratio, 0.95)
	})
}
