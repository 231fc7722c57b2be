package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"

	"simplepoker-server/internal/rng"
)

// ErrInsufficientCards is returned when more cards are drawn than remain in the deck
var ErrInsufficientCards = errors.New("not enough cards left in the deck")

// Size is the number of cards in a standard deck
const Size = 52

// Deck represents a playing deck
// A deck is owned by a single round; it's never replenished, only rebuilt.
type Deck struct {
	Cards []Card `json:"cards"`
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{}
	d.buildDeck()
	return d
}

// NewShuffled returns a freshly built deck shuffled with gen
func NewShuffled(gen rng.Generator) *Deck {
	d := New()
	d.Shuffle(gen)
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle rebuilds the deck and applies a Fisher-Yates shuffle
func (d *Deck) Shuffle(gen rng.Generator) {
	// we always want to shuffle from a full deck
	if len(d.Cards) != Size {
		d.buildDeck()
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Draw removes and returns the next n cards
// If fewer than n cards remain, ErrInsufficientCards is returned and the deck is unchanged.
func (d *Deck) Draw(n int) (Hand, error) {
	if n < 0 || len(d.Cards) < n {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.Cards))
	}

	cards := make(Hand, n)
	copy(cards, d.Cards[:n])
	d.Cards = d.Cards[n:]

	return cards, nil
}

// DrawOne will draw the next card
func (d *Deck) DrawOne() (Card, error) {
	cards, err := d.Draw(1)
	if err != nil {
		return Card{}, err
	}

	return cards[0], nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// Clone returns a copy of the deck that shares no state with the original
func (d *Deck) Clone() *Deck {
	cards := make([]Card, len(d.Cards))
	copy(cards, d.Cards)
	return &Deck{Cards: cards}
}
