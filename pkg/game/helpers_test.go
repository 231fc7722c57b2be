package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"simplepoker-server/internal/rng"
	"simplepoker-server/pkg/deck"
)

// fakeLedger is a Ledger that can be told to fail for a player
type fakeLedger struct {
	lock     sync.Mutex
	balances map[int64]int64
	failFor  map[int64]error
	calls    []Delta
}

func newFakeLedger(balances map[int64]int64) *fakeLedger {
	return &fakeLedger{
		balances: balances,
		failFor:  make(map[int64]error),
	}
}

func (f *fakeLedger) GetBalance(ctx context.Context, playerID int64) (int64, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.balances[playerID], nil
}

func (f *fakeLedger) ApplyDelta(ctx context.Context, playerID int64, delta int64) (int64, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, Delta{PlayerID: playerID, Amount: delta})
	if err := f.failFor[playerID]; err != nil {
		return 0, err
	}

	if f.balances[playerID]+delta < 0 {
		return 0, ErrInsufficientBalance
	}

	f.balances[playerID] += delta
	return f.balances[playerID], nil
}

// fakeBatchLedger records batches
type fakeBatchLedger struct {
	*fakeLedger
	batches [][]Delta
	err     error
}

func (f *fakeBatchLedger) ApplyDeltas(ctx context.Context, deltas []Delta) error {
	f.batches = append(f.batches, deltas)
	return f.err
}

var errLedgerDown = errors.New("ledger is down")

func newTestRoom(t *testing.T, opts Options) *Room {
	t.Helper()

	if opts.StartingChips == 0 {
		opts.StartingChips = 100
	}

	if opts.Shuffler == nil {
		opts.Shuffler = rng.NewMath(1)
	}

	if opts.Clock == nil {
		opts.Clock = quartz.NewMock(t)
	}

	return NewRoom("room-1", opts)
}

// rigRoom seats players 1 and 2, places the bets and deals the given cards
func rigRoom(t *testing.T, r *Room, hole1, hole2, community string, bet1, bet2 int64) {
	t.Helper()

	a := assert.New(t)
	a.NoError(r.Join(1))
	a.NoError(r.Join(2))
	a.NoError(r.DealInitial())

	r.mu.Lock()
	r.players[0].HoleCards = deck.CardsFromString(hole1)
	r.players[1].HoleCards = deck.CardsFromString(hole2)
	r.community = deck.CardsFromString(community)
	r.mu.Unlock()

	if bet1 > 0 {
		_, err := r.PlaceBet(1, bet1)
		a.NoError(err)
	}

	if bet2 > 0 {
		_, err := r.PlaceBet(2, bet2)
		a.NoError(err)
	}
}

func chips(t *testing.T, r *Room, playerID int64) int64 {
	t.Helper()

	p, ok := r.Player(playerID)
	if !assert.True(t, ok) {
		t.FailNow()
	}

	return p.Chips
}
