package game

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Ledger is the balance store the room settles showdowns against
// ApplyDelta must return ErrInsufficientBalance (wrapped or not) when the
// delta would take the balance below zero.
type Ledger interface {
	GetBalance(ctx context.Context, playerID int64) (int64, error)
	ApplyDelta(ctx context.Context, playerID int64, delta int64) (int64, error)
}

// BatchLedger can apply several deltas in one transaction
type BatchLedger interface {
	Ledger
	ApplyDeltas(ctx context.Context, deltas []Delta) error
}

// History records finished rounds
type History interface {
	Record(ctx context.Context, result *Result) error
}

// Delta is a balance adjustment for a single player
type Delta struct {
	PlayerID int64 `json:"playerId"`
	Amount   int64 `json:"amount"`
}

// Settle applies every delta or none of them
// Ledgers that support batches get a single call. Other ledgers are debited
// first, then credited, and applied deltas are reversed if a later one fails.
func Settle(ctx context.Context, ledger Ledger, deltas []Delta) error {
	nonZero := make([]Delta, 0, len(deltas))
	for _, d := range deltas {
		if d.Amount != 0 {
			nonZero = append(nonZero, d)
		}
	}

	if len(nonZero) == 0 {
		return nil
	}

	if batch, ok := ledger.(BatchLedger); ok {
		return batch.ApplyDeltas(ctx, nonZero)
	}

	// debits first, so a failing debit doesn't need a credit reversed
	ordered := make([]Delta, 0, len(nonZero))
	for _, d := range nonZero {
		if d.Amount < 0 {
			ordered = append(ordered, d)
		}
	}

	for _, d := range nonZero {
		if d.Amount > 0 {
			ordered = append(ordered, d)
		}
	}

	for i, d := range ordered {
		if _, err := ledger.ApplyDelta(ctx, d.PlayerID, d.Amount); err != nil {
			compensate(ctx, ledger, ordered[:i])
			return fmt.Errorf("could not apply %d to player %d: %w", d.Amount, d.PlayerID, err)
		}
	}

	return nil
}

func compensate(ctx context.Context, ledger Ledger, applied []Delta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		if _, err := ledger.ApplyDelta(ctx, d.PlayerID, -d.Amount); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"playerId": d.PlayerID,
				"amount":   -d.Amount,
			}).Error("could not reverse ledger delta")
		}
	}
}
