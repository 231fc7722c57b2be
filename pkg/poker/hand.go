package poker

import (
	"encoding/json"
	"fmt"
)

// Category is a poker hand category, i.e., royal flush
// Categories are ordered from the weakest to the strongest.
type Category int

// Constants for Category
const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		panic(fmt.Sprintf("unknown hand: %d", c))
	}
}

// MarshalJSON encodes JSON
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(c),
		Name: c.String(),
	})
}

// UnmarshalJSON decodes the {id, name} form written by MarshalJSON
func (c *Category) UnmarshalJSON(b []byte) error {
	var v struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	if v.ID < int(HighCard) || v.ID > int(RoyalFlush) {
		return fmt.Errorf("unknown hand: %d", v.ID)
	}

	*c = Category(v.ID)
	return nil
}
