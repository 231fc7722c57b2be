package game

import "simplepoker-server/pkg/deck"

// Player is a seated player
type Player struct {
	ID        int64
	Name      string
	HoleCards deck.Hand
	Chips     int64

	// Bet is the amount this player has put into the pot this round
	Bet int64
}

func (p *Player) clone() *Player {
	c := *p
	c.HoleCards = p.HoleCards.Clone()
	return &c
}
