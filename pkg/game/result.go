package game

import (
	"time"

	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/poker"
)

// PlayerHand is a player's hand at showdown
type PlayerHand struct {
	PlayerID  int64          `json:"playerId"`
	HoleCards deck.Hand      `json:"holeCards"`
	BestCards deck.Hand      `json:"bestCards"`
	Rank      poker.HandRank `json:"rank"`
	Name      string         `json:"name"`
	Bet       int64          `json:"bet"`
	Payout    int64          `json:"payout"`
}

// Result is the outcome of a showdown
type Result struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`

	// WinnerID is zero when the pot was split
	WinnerID   int64           `json:"winnerId,omitempty"`
	Winners    []int64         `json:"winners"`
	WinnerHand *poker.HandRank `json:"winnerHand"`
	Hands      []*PlayerHand   `json:"perPlayerHands"`
	Community  deck.Hand       `json:"communityCards"`

	// DeckHash fingerprints the shuffled deck the round was dealt from
	DeckHash string `json:"deckHash"`

	// Pot includes any chips carried over from the previous showdown
	Pot      int64     `json:"pot"`
	Carry    int64     `json:"carry"`
	TieBreak TieBreak  `json:"tieBreak"`
	Deltas   []Delta   `json:"deltas"`
	Created  time.Time `json:"created"`
}

// IsSplit returns true if more than one player shared the pot
func (r *Result) IsSplit() bool {
	return len(r.Winners) > 1
}

// Hand returns the showdown hand of the player
func (r *Result) Hand(playerID int64) (*PlayerHand, bool) {
	for _, h := range r.Hands {
		if h.PlayerID == playerID {
			return h, true
		}
	}

	return nil, false
}
