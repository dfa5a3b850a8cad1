package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleHasOrderThree(t *testing.T) {
	for _, start := range []Outcome{Incorrect, WrongPosition, Correct} {
		o := start
		for i := 0; i < 3; i++ {
			o = Cycle(o)
		}
		assert.Equal(t, start, o, "cycling %s three times", start)
	}
}

func TestCycleOrder(t *testing.T) {
	assert.Equal(t, WrongPosition, Cycle(Incorrect))
	assert.Equal(t, Correct, Cycle(WrongPosition))
	assert.Equal(t, Incorrect, Cycle(Correct))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, c := range []byte{'B', 'Y', 'G'} {
		o, err := Decode(c)
		require.NoError(t, err)
		assert.Equal(t, c, Encode(o))
	}
}

func TestDecodeRejectsUnknownCodes(t *testing.T) {
	for _, c := range []byte{'O', 'b', 'g', 'X', ' ', '0'} {
		_, err := Decode(c)
		var uce *UnknownCodeError
		require.True(t, errors.As(err, &uce), "code %q", c)
		assert.Equal(t, c, uce.Code)
	}
}

func TestEncodeCells(t *testing.T) {
	cells := Cells{WrongPosition, Incorrect, Correct, Incorrect, WrongPosition}
	assert.Equal(t, Feedback("YBGBY"), EncodeCells(cells))
	assert.Equal(t, Feedback("BBBBB"), EncodeCells(Cells{}))
}

func TestParseFeedback(t *testing.T) {
	cells, err := ParseFeedback("YBGBY")
	require.NoError(t, err)
	assert.Equal(t, Cells{WrongPosition, Incorrect, Correct, Incorrect, WrongPosition}, cells)

	_, err = ParseFeedback("YBOBY")
	var uce *UnknownCodeError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, byte('O'), uce.Code)

	_, err = ParseFeedback("YBG")
	require.Error(t, err)
}

func TestFeedbackSolved(t *testing.T) {
	assert.True(t, Feedback("GGGGG").Solved())
	assert.True(t, EncodeCells(Cells{Correct, Correct, Correct, Correct, Correct}).Solved())
	assert.False(t, Feedback("GGGGY").Solved())
}
