// internal/game/score.go
//
// Reference scoring of a guess against a known answer.
// The assistant never knows the answer; scoring is what a solver (or a test
// double standing in for one) uses to filter candidate words.

package game

import "strings"

// Score implements the standard two-pass Wordle scoring algorithm.
//
// Pass 1:
//   - Mark exact matches Correct.
//   - Count remaining (non-correct) answer letters.
//
// Pass 2:
//   - For each remaining guess letter: if a count is left, mark WrongPosition
//     and decrement it; otherwise Incorrect.
//
// Inputs are expected to be validated five-letter words.
func Score(answer, guess Word) Feedback {
	a := strings.ToLower(string(answer))
	g := strings.ToLower(string(guess))
	if len(a) != WordLength || len(g) != WordLength {
		return ""
	}

	var cells Cells
	var counts [26]int
	hit := [WordLength]bool{}

	for i := 0; i < WordLength; i++ {
		if g[i] == a[i] {
			cells[i] = Correct
			hit[i] = true
		} else if j := idx(a[i]); j >= 0 {
			counts[j]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if hit[i] {
			continue
		}
		j := idx(g[i])
		if j >= 0 && counts[j] > 0 {
			cells[i] = WrongPosition
			counts[j]--
		} else {
			cells[i] = Incorrect
		}
	}
	return EncodeCells(cells)
}

// idx maps a lowercase ASCII letter to 0..25, anything else to -1.
func idx(b byte) int {
	if b < 'a' || b > 'z' {
		return -1
	}
	return int(b - 'a')
}
