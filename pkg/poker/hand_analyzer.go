package poker

import (
	"errors"
	"fmt"
	"sort"

	"simplepoker-server/pkg/deck"
)

// HandSize is the number of cards that make a poker hand
const HandSize = 5

// ErrNotEnoughCards is returned when fewer than five cards are evaluated
var ErrNotEnoughCards = errors.New("at least five cards are required")

// rankGroup is a rank and how many times it appears in a hand
type rankGroup struct {
	rank  deck.Rank
	count int
}

// handAnalyzer can analyze a five card hand
type handAnalyzer struct {
	ranks  []deck.Rank // sorted descending
	groups []rankGroup // sorted by count, then rank, descending
	flush  bool
}

func newHandAnalyzer(five []deck.Card) *handAnalyzer {
	sorted := make([]deck.Card, len(five))
	copy(sorted, five)
	sort.Sort(sort.Reverse(sortByRank(sorted)))

	h := &handAnalyzer{
		ranks: make([]deck.Rank, len(sorted)),
		flush: true,
	}

	counts := make(map[deck.Rank]int)
	for i, card := range sorted {
		h.ranks[i] = card.Rank
		counts[card.Rank]++

		if card.Suit != sorted[0].Suit {
			h.flush = false
		}
	}

	h.groups = make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		h.groups = append(h.groups, rankGroup{rank: rank, count: count})
	}

	sort.Slice(h.groups, func(i, j int) bool {
		if h.groups[i].count != h.groups[j].count {
			return h.groups[i].count > h.groups[j].count
		}

		return h.groups[i].rank > h.groups[j].rank
	})

	return h
}

// groupRanks returns the ranks of the groups, starting at index start
func (h *handAnalyzer) groupRanks(start int) []deck.Rank {
	ranks := make([]deck.Rank, 0, len(h.groups)-start)
	for _, g := range h.groups[start:] {
		ranks = append(ranks, g.rank)
	}

	return ranks
}

func (h *handAnalyzer) rank() HandRank {
	high, straight := straightHigh(h.ranks)

	switch {
	case straight && h.flush && high == deck.Ace:
		return HandRank{Category: RoyalFlush, Tiebreak: []deck.Rank{high}}
	case straight && h.flush:
		return HandRank{Category: StraightFlush, Tiebreak: []deck.Rank{high}}
	case h.groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: h.groupRanks(0)}
	case h.groups[0].count == 3 && h.groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreak: h.groupRanks(0)}
	case h.flush:
		return HandRank{Category: Flush, Tiebreak: h.ranks}
	case straight:
		return HandRank{Category: Straight, Tiebreak: []deck.Rank{high}}
	case h.groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: h.groupRanks(0)}
	case h.groups[0].count == 2 && h.groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreak: h.groupRanks(0)}
	case h.groups[0].count == 2:
		return HandRank{Category: OnePair, Tiebreak: h.groupRanks(0)}
	}

	return HandRank{Category: HighCard, Tiebreak: h.ranks}
}

// EvaluateExactFive classifies exactly five cards
func EvaluateExactFive(five []deck.Card) (HandRank, error) {
	if len(five) != HandSize {
		return HandRank{}, fmt.Errorf("expected %d cards, got %d", HandSize, len(five))
	}

	return newHandAnalyzer(five).rank(), nil
}
