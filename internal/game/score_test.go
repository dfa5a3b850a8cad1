package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		answer, guess Word
		want          Feedback
	}{
		{"apple", "apple", "GGGGG"},
		{"apple", "alley", "GYBYB"},
		{"apple", "zzzzz", "BBBBB"},
		{"crane", "raise", "YYBBG"},
		{"abbey", "babes", "YYGGB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.answer, tt.guess), "Score(%s, %s)", tt.answer, tt.guess)
	}
}

func TestScoreRejectsWrongLength(t *testing.T) {
	assert.Equal(t, Feedback(""), Score("apple", "app"))
}
