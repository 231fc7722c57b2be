package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidCard is returned when a card cannot be parsed
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists every suit in deck-building order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank is the rank of a card, 2 through 14
type Rank int

// face cards
const (
	Two   Rank = 2
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Card is an individual playing card
// Cards are values: two cards are equal when both rank and suit match.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// String returns a short label, e.g., "A♠"
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

// Symbol returns the unicode symbol for the suit
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		panic(fmt.Sprintf("unknown suit: %s", string(s)))
	}
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c Card) Equal(card Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// Less orders cards by rank, then by suit
func (c Card) Less(card Card) bool {
	if c.Rank != card.Rank {
		return c.Rank < card.Rank
	}

	return suitOrder(c.Suit) < suitOrder(card.Suit)
}

// Valid returns true if the card is a member of a standard deck
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && suitOrder(c.Suit) >= 0
}

// UnmarshalJSON decodes a card and rejects anything outside a standard deck
func (c *Card) UnmarshalJSON(b []byte) error {
	type plain Card
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	if !Card(p).Valid() {
		return fmt.Errorf("%w: rank %d, suit %q", ErrInvalidCard, p.Rank, p.Suit)
	}

	*c = Card(p)
	return nil
}

func suitOrder(s Suit) int {
	for i, suit := range Suits {
		if suit == s {
			return i
		}
	}

	return -1
}

var cardRx = regexp.MustCompile(`(?i)^([2-9]|1[0-4]|[tjqka])([cdhs])\z`)

// ParseCard returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is 2-14 (or T, J, Q, K, A) and suit in [cdhs]
func ParseCard(s string) (Card, error) {
	match := cardRx.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	var rank Rank
	switch strings.ToLower(match[1]) {
	case "t":
		rank = Ten
	case "j":
		rank = Jack
	case "q":
		rank = Queen
	case "k":
		rank = King
	case "a":
		rank = Ace
	default:
		r, err := strconv.Atoi(match[1])
		if err != nil {
			return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
		}
		rank = Rank(r)
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// CardFromString is like ParseCard, but panics on invalid input
// It's intended for tests and static tables.
func CardFromString(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	return card
}

// ParseCards parses a comma separated list of cards, e.g., 2c,3h,14s
func ParseCards(s string) (Hand, error) {
	if strings.TrimSpace(s) == "" {
		return Hand{}, nil
	}

	cardStrings := strings.Split(s, ",")
	cards := make(Hand, len(cardStrings))
	for i, cardString := range cardStrings {
		card, err := ParseCard(cardString)
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// CardsFromString will returns a slice of cards
// It panics if any card cannot be parsed.
func CardsFromString(s string) Hand {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err.Error())
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (14c)
func CardToString(card Card) string {
	var suit string
	switch card.Suit {
	case Clubs:
		suit = "c"
	case Hearts:
		suit = "h"
	case Diamonds:
		suit = "d"
	case Spades:
		suit = "s"
	}

	return fmt.Sprintf("%d%s", card.Rank, suit)
}

// CardsToString will convert a slice of cards to a string in the format of 2c,3h,4s,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
