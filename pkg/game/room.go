package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"simplepoker-server/internal/rng"
	"simplepoker-server/internal/util"
	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/poker"
)

// MaxPlayers is the number of seats in a room
const MaxPlayers = 2

// holeCardCount is the number of private cards dealt to each player
const holeCardCount = 2

// communityCardCount is the number of shared cards
const communityCardCount = 5

// Room is a two player table that moves through Initial, Betting and Reveal
// Every exported method is safe for concurrent use. A rejected action leaves
// the room unchanged.
type Room struct {
	ID string

	opts Options
	mu   sync.Mutex

	players   []*Player
	deck      *deck.Deck
	community deck.Hand
	dealOrder []int64
	deckHash  string
	stage     Stage
	pot       int64

	// carry holds the odd chip of a split pot until the next showdown
	carry int64

	result     *Result
	lastActive time.Time
}

// NewRoom returns an empty room in the initial stage
func NewRoom(id string, opts Options) *Room {
	opts = opts.withDefaults()
	return &Room{
		ID:         id,
		opts:       opts,
		stage:      StageInitial,
		lastActive: opts.Clock.Now(),
	}
}

// Stage returns the current stage
func (r *Room) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

// Pot returns the chips wagered this round
func (r *Room) Pot() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pot
}

// Carry returns the chips carried over from a split pot
func (r *Room) Carry() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carry
}

// LastActive returns the time of the last accepted action
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// PlayerIDs returns the seated players in seat order
func (r *Room) PlayerIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}

	return ids
}

// Player returns a copy of the seated player
func (r *Room) Player(playerID int64) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, _ := r.player(playerID)
	if p == nil {
		return nil, false
	}

	return p.clone(), true
}

// NOTE: caller must hold the lock
func (r *Room) player(playerID int64) (*Player, int) {
	for i, p := range r.players {
		if p.ID == playerID {
			return p, i
		}
	}

	return nil, -1
}

// NOTE: caller must hold the lock
func (r *Room) touch() {
	r.lastActive = r.opts.Clock.Now()
}

// Join seats the player with the configured starting chips
func (r *Room) Join(playerID int64) error {
	return r.JoinWithChips(playerID, r.opts.StartingChips)
}

// JoinWithChips seats the player with the given stack
func (r *Room) JoinWithChips(playerID int64, chips int64) error {
	if chips < 0 {
		return ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, _ := r.player(playerID); p != nil {
		return ErrAlreadySeated
	}

	if len(r.players) >= MaxPlayers {
		return ErrRoomFull
	}

	r.players = append(r.players, &Player{
		ID:    playerID,
		Name:  util.RandomName(rng.NewMath(playerID)),
		Chips: chips,
	})
	r.touch()

	return nil
}

// Leave frees the player's seat and returns their bet to their stack
// Players cannot leave while cards are in play.
func (r *Room) Leave(playerID int64) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage == StageBetting {
		return nil, &StageError{Op: "leave", Stage: r.stage}
	}

	p, idx := r.player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	r.pot -= p.Bet
	p.Chips += p.Bet
	p.Bet = 0
	p.HoleCards = nil

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.touch()

	return p, nil
}

// BetUpdate is sent after a bet is accepted
type BetUpdate struct {
	PlayerID   int64 `json:"playerId"`
	Amount     int64 `json:"amount"`
	NewBalance int64 `json:"newBalance"`
	Pot        int64 `json:"pot"`
}

// PlaceBet moves chips from the player's stack to the pot
// Bets are accepted in any stage. Bets made after the reveal are returned
// when the next round starts.
func (r *Room) PlaceBet(playerID int64, amount int64) (*BetUpdate, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, _ := r.player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	if p.Chips < amount {
		return nil, fmt.Errorf("%w: cannot bet %d with %d chips", ErrInsufficientBalance, amount, p.Chips)
	}

	p.Chips -= amount
	p.Bet += amount
	r.pot += amount
	r.touch()

	return &BetUpdate{
		PlayerID:   p.ID,
		Amount:     amount,
		NewBalance: p.Chips,
		Pot:        r.pot,
	}, nil
}

// DealInitial shuffles a new deck, deals two hole cards to each player one
// at a time, then deals the community cards
func (r *Room) DealInitial() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageInitial {
		return &StageError{Op: "deal", Stage: r.stage}
	}

	if len(r.players) != MaxPlayers {
		return fmt.Errorf("%w: %d seated", ErrNotEnoughPlayers, len(r.players))
	}

	d := deck.NewShuffled(r.opts.Shuffler)
	deckHash := d.HashCode()
	if need := holeCardCount*len(r.players) + communityCardCount; !d.CanDraw(need) {
		return fmt.Errorf("%w: need %d", deck.ErrInsufficientCards, need)
	}

	holeCards := make([]deck.Hand, len(r.players))
	dealOrder := make([]int64, 0, holeCardCount*len(r.players))
	for round := 0; round < holeCardCount; round++ {
		for i, p := range r.players {
			card, err := d.DrawOne()
			if err != nil {
				return err
			}

			holeCards[i].AddCard(card)
			dealOrder = append(dealOrder, p.ID)
		}
	}

	community, err := d.Draw(communityCardCount)
	if err != nil {
		return err
	}

	for i, p := range r.players {
		p.HoleCards = holeCards[i]
	}

	r.deck = d
	r.community = community
	r.dealOrder = dealOrder
	r.deckHash = deckHash
	r.stage = r.stage.next()
	r.touch()

	return nil
}

// Reveal evaluates each player's best hand, pays the winner and moves to
// the reveal stage
// The payout is committed to the ledger before the stage changes. If the
// ledger fails, a *SettlementError is returned and the room stays in the
// betting stage. A nil ledger only updates the seated stacks.
func (r *Room) Reveal(ctx context.Context, ledger Ledger) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageBetting {
		return nil, &StageError{Op: "reveal", Stage: r.stage}
	}

	hands := make([]*PlayerHand, len(r.players))
	for i, p := range r.players {
		cards := append(p.HoleCards.Clone(), r.community...)
		rank, best, err := poker.BestHand(cards)
		if err != nil {
			return nil, err
		}

		hands[i] = &PlayerHand{
			PlayerID:  p.ID,
			HoleCards: p.HoleCards.Clone(),
			BestCards: best,
			Rank:      rank,
			Name:      rank.Category.String(),
			Bet:       p.Bet,
		}
	}

	won := winners(hands, r.opts.TieBreak)
	total := r.pot + r.carry
	share, carry := splitPot(total, len(won))
	if len(won) == 1 {
		carry = 0
	}

	result := &Result{
		ID:        uuid.New().String(),
		RoomID:    r.ID,
		Hands:     hands,
		Community: r.community.Clone(),
		DeckHash:  r.deckHash,
		Pot:       total,
		Carry:     carry,
		TieBreak:  r.opts.TieBreak,
		Created:   r.opts.Clock.Now(),
	}

	for _, i := range won {
		hands[i].Payout = share
		result.Winners = append(result.Winners, hands[i].PlayerID)
	}

	winnerHand := hands[won[0]].Rank
	result.WinnerHand = &winnerHand
	if len(won) == 1 {
		result.WinnerID = hands[won[0]].PlayerID
	}

	result.Deltas = make([]Delta, len(hands))
	for i, h := range hands {
		result.Deltas[i] = Delta{PlayerID: h.PlayerID, Amount: h.Payout - h.Bet}
	}

	if ledger != nil {
		if err := Settle(ctx, ledger, result.Deltas); err != nil {
			return nil, &SettlementError{Err: err}
		}
	}

	for i, p := range r.players {
		p.Chips += hands[i].Payout
		p.Bet = 0
	}

	r.pot = 0
	r.carry = carry
	r.result = result
	r.stage = r.stage.next()
	r.touch()

	return result, nil
}

// StartNewRound clears the cards and the pot and returns to the initial stage
// From the reveal stage, bets made after the showdown are returned. From the
// betting stage the round is abandoned and every bet is returned.
func (r *Room) StartNewRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage == StageInitial {
		return &StageError{Op: "start a new round", Stage: r.stage}
	}

	for _, p := range r.players {
		p.Chips += p.Bet
		p.Bet = 0
		p.HoleCards = nil
	}

	r.deck = nil
	r.community = nil
	r.dealOrder = nil
	r.deckHash = ""
	r.pot = 0
	r.result = nil
	r.stage = StageInitial
	r.touch()

	return nil
}

// CardsLeft returns the number of undealt cards, or zero if nothing was dealt
func (r *Room) CardsLeft() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deck == nil {
		return 0
	}

	return r.deck.CardsLeft()
}
