package session

import "fmt"

// SentinelPolicy decides what happens to the just-submitted round when the
// solver answers with a sentinel instead of a word.
type SentinelPolicy int

const (
	// SentinelKeep leaves the round in history. The user can re-send it
	// unchanged, reset, or switch to another guess.
	SentinelKeep SentinelPolicy = iota
	// SentinelDiscard removes the round so the same guess can be
	// re-submitted with corrected feedback.
	SentinelDiscard
)

func (p SentinelPolicy) String() string {
	if p == SentinelDiscard {
		return "discard"
	}
	return "keep"
}

// ParseSentinelPolicy parses "keep" or "discard".
func ParseSentinelPolicy(s string) (SentinelPolicy, error) {
	switch s {
	case "", "keep":
		return SentinelKeep, nil
	case "discard":
		return SentinelDiscard, nil
	}
	return SentinelKeep, fmt.Errorf("unknown sentinel policy %q (want keep or discard)", s)
}
