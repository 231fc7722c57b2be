package game

import (
	"sort"

	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/poker"
)

// winners returns the indexes of the hands that share the pot
func winners(hands []*PlayerHand, policy TieBreak) []int {
	best := []int{0}
	for i := 1; i < len(hands); i++ {
		switch poker.Compare(hands[i].Rank, hands[best[0]].Rank) {
		case 1:
			best = []int{i}
		case 0:
			best = append(best, i)
		}
	}

	if len(best) < 2 || policy != TieBreakHoleCards {
		return best
	}

	kept := []int{best[0]}
	for _, i := range best[1:] {
		switch compareHoleCards(hands[i].HoleCards, hands[kept[0]].HoleCards) {
		case 1:
			kept = []int{i}
		case 0:
			kept = append(kept, i)
		}
	}

	return kept
}

// compareHoleCards compares the highest hole card, then the next
// Cards are ranked highest first regardless of the order they were dealt,
// so 4-A beats K-K.
func compareHoleCards(a, b deck.Hand) int {
	ra := descendingRanks(a)
	rb := descendingRanks(b)

	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] > rb[i] {
			return 1
		}

		if ra[i] < rb[i] {
			return -1
		}
	}

	return 0
}

func descendingRanks(h deck.Hand) []deck.Rank {
	ranks := make([]deck.Rank, len(h))
	for i, c := range h {
		ranks[i] = c.Rank
	}

	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i] > ranks[j]
	})

	return ranks
}

// splitPot divides total between the winners, returning the remainder
func splitPot(total int64, n int) (share int64, remainder int64) {
	return total / int64(n), total % int64(n)
}
