package poker

import (
	"strings"

	"simplepoker-server/pkg/deck"
)

// HandRank is the comparable value of a 5-card hand
// Category dominates; ties within a category are broken by Tiebreak, compared lexicographically.
type HandRank struct {
	Category Category    `json:"category"`
	Tiebreak []deck.Rank `json:"tiebreak"`
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 if they are equal
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}

		return -1
	}

	n := len(a.Tiebreak)
	if len(b.Tiebreak) < n {
		n = len(b.Tiebreak)
	}

	for i := 0; i < n; i++ {
		if a.Tiebreak[i] > b.Tiebreak[i] {
			return 1
		}

		if a.Tiebreak[i] < b.Tiebreak[i] {
			return -1
		}
	}

	switch {
	case len(a.Tiebreak) > len(b.Tiebreak):
		return 1
	case len(a.Tiebreak) < len(b.Tiebreak):
		return -1
	}

	return 0
}

// Beats returns true if h is strictly better than other
func (h HandRank) Beats(other HandRank) bool {
	return Compare(h, other) > 0
}

// Equal returns true if neither hand beats the other
func (h HandRank) Equal(other HandRank) bool {
	return Compare(h, other) == 0
}

// String returns a readable version of the hand, e.g., "Flush (K,J,9,7,2)"
func (h HandRank) String() string {
	ranks := make([]string, len(h.Tiebreak))
	for i, r := range h.Tiebreak {
		ranks[i] = r.String()
	}

	return h.Category.String() + " (" + strings.Join(ranks, ",") + ")"
}
