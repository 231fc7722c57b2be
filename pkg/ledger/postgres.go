package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"simplepoker-server/pkg/db"
	"simplepoker-server/pkg/game"
)

// pqCheckViolation is the SQLSTATE of a failed CHECK constraint
const pqCheckViolation = "23514"

// Postgres is a ledger backed by the accounts table
type Postgres struct {
	db             *sql.DB
	openingBalance int64
}

// NewPostgres returns a postgres ledger
func NewPostgres(dbh *sql.DB, openingBalance int64) *Postgres {
	return &Postgres{
		db:             dbh,
		openingBalance: openingBalance,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (p *Postgres) ensureAccount(ctx context.Context, q execer, playerID int64) error {
	const query = `
INSERT INTO accounts (player_id, balance)
VALUES ($1, $2)
ON CONFLICT (player_id) DO NOTHING`

	_, err := q.ExecContext(ctx, query, playerID, p.openingBalance)
	return err
}

// GetBalance returns the player's balance
func (p *Postgres) GetBalance(ctx context.Context, playerID int64) (int64, error) {
	if err := p.ensureAccount(ctx, p.db, playerID); err != nil {
		return 0, err
	}

	var balance int64
	row := p.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE player_id = $1`, playerID)
	if err := row.Scan(&balance); err != nil {
		return 0, err
	}

	return balance, nil
}

// ApplyDelta adds delta to the player's balance and records a ledger entry
func (p *Postgres) ApplyDelta(ctx context.Context, playerID int64, delta int64) (int64, error) {
	var balance int64
	err := db.InTx(ctx, p.db, func(tx *sql.Tx) error {
		var err error
		balance, err = p.applyDelta(ctx, tx, playerID, delta)
		return err
	})

	return balance, err
}

// ApplyDeltas applies every delta in a single transaction
func (p *Postgres) ApplyDeltas(ctx context.Context, deltas []game.Delta) error {
	return db.InTx(ctx, p.db, func(tx *sql.Tx) error {
		for _, d := range deltas {
			if _, err := p.applyDelta(ctx, tx, d.PlayerID, d.Amount); err != nil {
				return err
			}
		}

		return nil
	})
}

func (p *Postgres) applyDelta(ctx context.Context, tx *sql.Tx, playerID int64, delta int64) (int64, error) {
	if err := p.ensureAccount(ctx, tx, playerID); err != nil {
		return 0, err
	}

	const query = `
UPDATE accounts
SET balance = balance + $2, updated = (NOW() AT TIME ZONE 'UTC')
WHERE player_id = $1
RETURNING balance`

	var balance int64
	if err := tx.QueryRowContext(ctx, query, playerID, delta).Scan(&balance); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation {
			return 0, fmt.Errorf("%w: player %d", game.ErrInsufficientBalance, playerID)
		}

		return 0, err
	}

	const entry = `INSERT INTO ledger_entries (player_id, delta, balance) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, entry, playerID, delta, balance); err != nil {
		return 0, err
	}

	return balance, nil
}

// PostgresHistory records finished rounds in the games table
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory returns a postgres history
func NewPostgresHistory(dbh *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: dbh}
}

// Record stores the result
func (p *PostgresHistory) Record(ctx context.Context, result *game.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	const query = `INSERT INTO games (id, room_id, pot, data, created) VALUES ($1, $2, $3, $4, $5)`
	_, err = p.db.ExecContext(ctx, query, result.ID, result.RoomID, result.Pot, b, result.Created)
	return err
}

// Results returns the results of a room, most recent first
func (p *PostgresHistory) Results(ctx context.Context, roomID string, limit int) ([]*game.Result, error) {
	const query = `
SELECT data
FROM games
WHERE room_id = $1
ORDER BY created DESC
LIMIT $2`

	rows, err := p.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	results := make([]*game.Result, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, rows.Err()
}

func scanResult(row db.Scanner) (*game.Result, error) {
	var b []byte
	if err := row.Scan(&b); err != nil {
		return nil, err
	}

	var result game.Result
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
