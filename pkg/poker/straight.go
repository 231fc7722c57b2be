package poker

import "simplepoker-server/pkg/deck"

// straightHigh returns the highest rank of a five card run
// ranks must be sorted in descending order. The wheel (A-2-3-4-5) reports 5.
func straightHigh(ranks []deck.Rank) (deck.Rank, bool) {
	if len(ranks) != 5 {
		return 0, false
	}

	for i := 1; i < len(ranks); i++ {
		if ranks[i-1] != ranks[i]+1 {
			return wheelHigh(ranks)
		}
	}

	return ranks[0], true
}

// wheelHigh checks for the ace-low straight, where the ace counts as 1
func wheelHigh(ranks []deck.Rank) (deck.Rank, bool) {
	if ranks[0] != deck.Ace {
		return 0, false
	}

	// A,5,4,3,2
	expects := deck.Rank(5)
	for _, r := range ranks[1:] {
		if r != expects {
			return 0, false
		}

		expects--
	}

	return 5, true
}
