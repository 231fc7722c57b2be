package ledger

import (
	"context"
	"fmt"
	"sync"

	"simplepoker-server/pkg/game"
)

// Memory is a ledger that lives for the lifetime of the process
type Memory struct {
	lock           sync.Mutex
	openingBalance int64
	balances       map[int64]int64
}

// NewMemory returns an empty in-memory ledger
// Players the ledger hasn't seen before start with openingBalance.
func NewMemory(openingBalance int64) *Memory {
	return &Memory{
		openingBalance: openingBalance,
		balances:       make(map[int64]int64),
	}
}

// NOTE: caller must hold the lock
func (m *Memory) balance(playerID int64) int64 {
	balance, ok := m.balances[playerID]
	if !ok {
		balance = m.openingBalance
		m.balances[playerID] = balance
	}

	return balance
}

// GetBalance returns the player's balance
func (m *Memory) GetBalance(ctx context.Context, playerID int64) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.balance(playerID), nil
}

// ApplyDelta adds delta to the player's balance
func (m *Memory) ApplyDelta(ctx context.Context, playerID int64, delta int64) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	balance := m.balance(playerID) + delta
	if balance < 0 {
		return 0, fmt.Errorf("%w: player %d", game.ErrInsufficientBalance, playerID)
	}

	m.balances[playerID] = balance
	return balance, nil
}

// ApplyDeltas applies all of the deltas or none of them
func (m *Memory) ApplyDeltas(ctx context.Context, deltas []game.Delta) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	next := make(map[int64]int64, len(deltas))
	for _, d := range deltas {
		balance, ok := next[d.PlayerID]
		if !ok {
			balance = m.balance(d.PlayerID)
		}

		balance += d.Amount
		if balance < 0 {
			return fmt.Errorf("%w: player %d", game.ErrInsufficientBalance, d.PlayerID)
		}

		next[d.PlayerID] = balance
	}

	for playerID, balance := range next {
		m.balances[playerID] = balance
	}

	return nil
}

// MemoryHistory keeps finished rounds in memory
type MemoryHistory struct {
	lock    sync.RWMutex
	results []*game.Result
}

// NewMemoryHistory returns an empty history
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Record stores the result
func (m *MemoryHistory) Record(ctx context.Context, result *game.Result) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.results = append(m.results, result)
	return nil
}

// Results returns the results of a room, most recent first
func (m *MemoryHistory) Results(ctx context.Context, roomID string, limit int) ([]*game.Result, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	results := make([]*game.Result, 0)
	for i := len(m.results) - 1; i >= 0 && len(results) < limit; i-- {
		if m.results[i].RoomID == roomID {
			results = append(results, m.results[i])
		}
	}

	return results, nil
}
