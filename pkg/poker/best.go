package poker

import (
	"fmt"

	"simplepoker-server/pkg/deck"
)

// EvaluateBest returns the best HandRank that any five of the cards can make
func EvaluateBest(cards []deck.Card) (HandRank, error) {
	rank, _, err := BestHand(cards)
	return rank, err
}

// BestHand returns the best HandRank of any five of the cards, along with the five cards that make it
// When several subsets share the best rank, the first one found is returned.
func BestHand(cards []deck.Card) (HandRank, deck.Hand, error) {
	n := len(cards)
	if n < HandSize {
		return HandRank{}, nil, fmt.Errorf("%w: got %d", ErrNotEnoughCards, n)
	}

	var best HandRank
	var bestCards deck.Hand
	five := make([]deck.Card, HandSize)

	forEachFive(n, func(idx [HandSize]int) {
		for i, j := range idx {
			five[i] = cards[j]
		}

		rank := newHandAnalyzer(five).rank()
		if bestCards == nil || rank.Beats(best) {
			best = rank
			bestCards = deck.Hand(five).Clone()
		}
	})

	return best, bestCards, nil
}

// forEachFive calls fn with every combination of five indexes from [0, n)
func forEachFive(n int, fn func(idx [HandSize]int)) {
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						fn([HandSize]int{a, b, c, d, e})
					}
				}
			}
		}
	}
}
