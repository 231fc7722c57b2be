package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"simplepoker-server/internal/rng"
	"simplepoker-server/internal/util"
	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/poker"
)

func TestRoom_Join(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{StartingChips: 250})

	a.NoError(r.Join(1))
	a.Equal(ErrAlreadySeated, r.Join(1))
	a.NoError(r.JoinWithChips(2, 40))
	a.Equal(ErrRoomFull, r.Join(3))
	a.Equal([]int64{1, 2}, r.PlayerIDs())

	a.Equal(int64(250), chips(t, r, 1))
	a.Equal(int64(40), chips(t, r, 2))

	a.Equal(ErrInvalidAmount, r.JoinWithChips(4, -1))
}

func TestRoom_PlaceBet(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	a.NoError(r.Join(1))

	update, err := r.PlaceBet(1, 25)
	a.NoError(err)
	a.Equal(&BetUpdate{PlayerID: 1, Amount: 25, NewBalance: 75, Pot: 25}, update)

	update, err = r.PlaceBet(1, 5)
	a.NoError(err)
	a.Equal(int64(70), update.NewBalance)
	a.Equal(int64(30), update.Pot)

	_, err = r.PlaceBet(1, 0)
	a.Equal(ErrInvalidAmount, err)

	_, err = r.PlaceBet(2, 10)
	a.Equal(ErrPlayerNotFound, err)
}

func TestRoom_PlaceBet_overBet(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	a.NoError(r.Join(1))

	_, err := r.PlaceBet(1, 40)
	a.NoError(err)

	_, err = r.PlaceBet(1, 61)
	a.True(errors.Is(err, ErrInsufficientBalance))
	a.EqualError(err, "insufficient balance: cannot bet 61 with 60 chips")
	a.True(IsUserError(err))

	// nothing changed
	a.Equal(int64(60), chips(t, r, 1))
	a.Equal(int64(40), r.Pot())
}

func TestRoom_DealInitial(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{Shuffler: rng.NewMath(99)})
	a.NoError(r.Join(10))
	a.NoError(r.Join(20))
	a.NoError(r.DealInitial())

	a.Equal(StageBetting, r.Stage())
	a.Equal(deck.Size-9, r.CardsLeft())

	// the same seed produces the same deck, dealt one card at a time
	expects := deck.NewShuffled(rng.NewMath(99)).Cards
	p1, _ := r.Player(10)
	p2, _ := r.Player(20)
	a.Equal(deck.Hand{expects[0], expects[2]}, p1.HoleCards)
	a.Equal(deck.Hand{expects[1], expects[3]}, p2.HoleCards)

	s := r.Snapshot(PublicViewer)
	a.Equal(deck.Hand(expects[4:9]), s.CommunityCards)
	a.Equal([]int64{10, 20, 10, 20}, s.DealOrder)

	all := append(append(p1.HoleCards.Clone(), p2.HoleCards...), s.CommunityCards...)
	a.False(all.HasDuplicates())

	// can't deal twice
	err := r.DealInitial()
	a.True(errors.Is(err, ErrWrongStage))
	var stageErr *StageError
	a.True(errors.As(err, &stageErr))
	a.Equal("deal", stageErr.Op)
	a.Equal(StageBetting, stageErr.Stage)
	a.EqualError(err, "cannot deal during the betting stage")

	// the result fingerprints the deck before anything was drawn
	result, err := r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.Equal(deck.NewShuffled(rng.NewMath(99)).HashCode(), result.DeckHash)
	a.Len(result.DeckHash, 40)

	a.NoError(r.StartNewRound())
	a.NoError(r.DealInitial())
	result, err = r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.NotEqual(deck.NewShuffled(rng.NewMath(99)).HashCode(), result.DeckHash)
}

func TestRoom_DealInitial_notEnoughPlayers(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})

	err := r.DealInitial()
	a.True(errors.Is(err, ErrNotEnoughPlayers))

	a.NoError(r.Join(1))
	err = r.DealInitial()
	a.True(errors.Is(err, ErrNotEnoughPlayers))
	a.EqualError(err, "two players are required: 1 seated")

	a.Equal(StageInitial, r.Stage())
	a.Equal(0, r.CardsLeft())
	p, _ := r.Player(1)
	a.Empty(p.HoleCards)
}

func TestRoom_Reveal_highCard(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	ledger := newFakeLedger(map[int64]int64{1: 100, 2: 100})

	// player 1 has ace high, player 2 has king high
	rigRoom(t, r, "14h,4s", "13d,3h", "2c,5d,7h,9s,11c", 10, 10)
	a.Equal(int64(90), chips(t, r, 2))

	result, err := r.Reveal(context.Background(), ledger)
	a.NoError(err)
	a.Equal(StageReveal, r.Stage())

	a.Equal(int64(1), result.WinnerID)
	a.Equal([]int64{1}, result.Winners)
	a.False(result.IsSplit())
	a.Equal(int64(20), result.Pot)
	a.Equal(poker.HighCard, result.WinnerHand.Category)
	a.Equal([]deck.Rank{14, 11, 9, 7, 5}, result.WinnerHand.Tiebreak)
	a.NotEmpty(result.ID)

	h2, ok := result.Hand(2)
	a.True(ok)
	a.Equal("High Card", h2.Name)
	a.Equal(int64(0), h2.Payout)

	// the pot goes to player 1, player 2 keeps what's left after the bet
	a.Equal(int64(110), chips(t, r, 1))
	a.Equal(int64(90), chips(t, r, 2))
	a.Equal(int64(110), ledger.balances[1])
	a.Equal(int64(90), ledger.balances[2])
	a.Equal([]Delta{{PlayerID: 1, Amount: 10}, {PlayerID: 2, Amount: -10}}, result.Deltas)

	// the result holds the pot now
	a.Equal(int64(0), r.Pot())
	a.Equal(int64(20), result.Pot)

	_, err = r.Reveal(context.Background(), ledger)
	a.True(errors.Is(err, ErrWrongStage))
}

func TestRoom_Reveal_ledgerFailure(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	ledger := newFakeLedger(map[int64]int64{1: 100, 2: 100})
	ledger.failFor[1] = errLedgerDown

	rigRoom(t, r, "14h,4s", "13d,3h", "2c,5d,7h,9s,11c", 10, 10)

	result, err := r.Reveal(context.Background(), ledger)
	a.Nil(result)

	var settlementErr *SettlementError
	a.True(errors.As(err, &settlementErr))
	a.True(settlementErr.Retryable())
	a.True(errors.Is(err, errLedgerDown))
	a.False(IsUserError(err))

	// nothing moved
	a.Equal(StageBetting, r.Stage())
	a.Equal(int64(20), r.Pot())
	a.Equal(int64(90), chips(t, r, 1))
	a.Equal(int64(90), chips(t, r, 2))

	// the debit of player 2 was reversed
	a.Equal(int64(100), ledger.balances[2])
	a.Equal([]Delta{{2, -10}, {1, 10}, {2, 10}}, ledger.calls)

	// retry once the ledger is back
	delete(ledger.failFor, 1)
	result, err = r.Reveal(context.Background(), ledger)
	a.NoError(err)
	a.Equal(int64(1), result.WinnerID)
	a.Equal(StageReveal, r.Stage())
}

func TestRoom_Reveal_split(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})

	// both play the royal flush on the board
	rigRoom(t, r, "2c,3d", "2d,3c", "10s,11s,12s,13s,14s", 10, 11)

	result, err := r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.True(result.IsSplit())
	a.Equal(int64(0), result.WinnerID)
	a.Equal([]int64{1, 2}, result.Winners)
	a.Equal(poker.RoyalFlush, result.WinnerHand.Category)
	a.Equal(int64(21), result.Pot)
	a.Equal(int64(1), result.Carry)
	a.Equal(int64(1), r.Carry())

	a.Equal(int64(100), chips(t, r, 1))
	a.Equal(int64(99), chips(t, r, 2))
	a.Equal([]Delta{{1, 0}, {2, -1}}, result.Deltas)

	// the odd chip goes to the next winner
	a.NoError(r.StartNewRound())
	a.NoError(r.DealInitial())
	r.mu.Lock()
	r.players[0].HoleCards = deck.CardsFromString("14h,4s")
	r.players[1].HoleCards = deck.CardsFromString("13d,3h")
	r.community = deck.CardsFromString("2c,5d,7h,9s,11c")
	r.mu.Unlock()

	_, err = r.PlaceBet(2, 5)
	a.NoError(err)

	result, err = r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.Equal(int64(6), result.Pot)
	a.Equal(int64(0), result.Carry)
	a.Equal(int64(106), chips(t, r, 1))
	a.Equal(int64(94), chips(t, r, 2))
}

func TestRoom_Reveal_holeCardTieBreak(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{TieBreak: TieBreakHoleCards})
	rigRoom(t, r, "2c,9d", "8c,3d", "10s,11s,12s,13s,14s", 10, 10)

	result, err := r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.Equal(int64(1), result.WinnerID)
	a.Equal(TieBreakHoleCards, result.TieBreak)
	a.Equal(int64(110), chips(t, r, 1))

	// same ranks in the hole still split
	r = newTestRoom(t, Options{TieBreak: TieBreakHoleCards})
	rigRoom(t, r, "2c,9d", "9c,2d", "10s,11s,12s,13s,14s", 10, 10)
	result, err = r.Reveal(context.Background(), nil)
	a.NoError(err)
	a.True(result.IsSplit())
	a.Equal(int64(100), chips(t, r, 1))
	a.Equal(int64(100), chips(t, r, 2))
}

func TestRoom_StartNewRound(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})

	err := r.StartNewRound()
	a.True(errors.Is(err, ErrWrongStage))

	rigRoom(t, r, "14h,4s", "13d,3h", "2c,5d,7h,9s,11c", 10, 10)
	_, err = r.Reveal(context.Background(), nil)
	a.NoError(err)

	// a bet after the showdown is returned with the new round
	_, err = r.PlaceBet(2, 15)
	a.NoError(err)
	a.Equal(int64(75), chips(t, r, 2))

	a.NoError(r.StartNewRound())
	a.Equal(StageInitial, r.Stage())
	a.Equal(int64(0), r.Pot())
	a.Equal(int64(90), chips(t, r, 2))
	a.Equal(int64(110), chips(t, r, 1))

	s := r.Snapshot(1)
	a.Empty(s.CommunityCards)
	a.Empty(s.DealOrder)
	a.Nil(s.Result)
	for _, p := range s.Players {
		a.Empty(p.HoleCards)
		a.Equal(0, p.HiddenCards)
	}

	a.Equal([]int64{1, 2}, r.PlayerIDs())
}

func TestRoom_StartNewRound_roundTrip(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	a.NoError(r.Join(1))
	a.NoError(r.Join(2))

	_, err := r.PlaceBet(1, 10)
	a.NoError(err)
	a.NoError(r.DealInitial())
	a.NoError(r.StartNewRound())

	a.Equal(StageInitial, r.Stage())
	a.Equal(int64(0), r.Pot())
	a.Equal(int64(100), chips(t, r, 1))
	a.Equal(0, r.CardsLeft())

	s := r.Snapshot(PublicViewer)
	a.Empty(s.CommunityCards)
	for _, p := range s.Players {
		a.Empty(p.HoleCards)
		a.Equal(int64(0), p.Bet)
	}

	// and the room can deal again
	a.NoError(r.DealInitial())
}

func TestRoom_Leave(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	a.NoError(r.Join(1))
	a.NoError(r.Join(2))

	_, err := r.PlaceBet(1, 30)
	a.NoError(err)

	p, err := r.Leave(1)
	a.NoError(err)
	a.Equal(int64(100), p.Chips)
	a.Equal(int64(0), r.Pot())
	a.Equal([]int64{2}, r.PlayerIDs())

	_, err = r.Leave(1)
	a.Equal(ErrPlayerNotFound, err)

	// the seat is free again
	a.NoError(r.Join(3))
	a.NoError(r.DealInitial())

	_, err = r.Leave(3)
	a.True(errors.Is(err, ErrWrongStage))
	a.Equal([]int64{2, 3}, r.PlayerIDs())

	_, err = r.Reveal(context.Background(), nil)
	a.NoError(err)

	_, err = r.Leave(3)
	a.NoError(err)
	a.Equal([]int64{2}, r.PlayerIDs())
}

func TestRoom_Snapshot(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	rigRoom(t, r, "14h,4s", "13d,3h", "2c,5d,7h,9s,11c", 10, 0)

	s := r.Snapshot(1)
	a.Equal("room-1", s.RoomID)
	a.Equal(util.RandomName(rng.NewMath(1)), s.Players[0].Name)
	a.NotEmpty(s.Players[1].Name)
	a.Equal(StageBetting, s.Stage)
	a.Equal(int64(10), s.Pot)
	a.Equal(deck.CardsFromString("2c,5d,7h,9s,11c"), s.CommunityCards)
	a.Equal(deck.CardsFromString("14h,4s"), s.Players[0].HoleCards)
	a.Equal(0, s.Players[0].HiddenCards)
	a.Empty(s.Players[1].HoleCards)
	a.Equal(2, s.Players[1].HiddenCards)

	s = r.Snapshot(PublicViewer)
	a.Empty(s.Players[0].HoleCards)
	a.Empty(s.Players[1].HoleCards)

	_, err := r.Reveal(context.Background(), nil)
	a.NoError(err)

	s = r.Snapshot(PublicViewer)
	a.Equal(deck.CardsFromString("14h,4s"), s.Players[0].HoleCards)
	a.Equal(deck.CardsFromString("13d,3h"), s.Players[1].HoleCards)
	a.NotNil(s.Result)
}

func TestRoom_LastActive(t *testing.T) {
	a := assert.New(t)
	clock := quartz.NewMock(t)
	r := newTestRoom(t, Options{Clock: clock})
	created := r.LastActive()

	clock.Advance(time.Minute).MustWait(context.Background())
	a.Equal(created, r.LastActive())

	a.NoError(r.Join(1))
	a.Equal(created.Add(time.Minute), r.LastActive())

	// rejected actions don't count
	clock.Advance(time.Minute).MustWait(context.Background())
	a.Error(r.DealInitial())
	a.Equal(created.Add(time.Minute), r.LastActive())
}

func TestRoom_PlaceBet_concurrent(t *testing.T) {
	a := assert.New(t)
	r := newTestRoom(t, Options{})
	a.NoError(r.Join(1))
	a.NoError(r.Join(2))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(playerID int64) {
			defer wg.Done()
			_, _ = r.PlaceBet(playerID, 2)
		}(int64(i%2 + 1))
	}

	wg.Wait()
	a.Equal(int64(100), r.Pot())
	a.Equal(int64(50), chips(t, r, 1))
	a.Equal(int64(50), chips(t, r, 2))
}
