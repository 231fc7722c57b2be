package ledger

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simplepoker-server/pkg/db"
	"simplepoker-server/pkg/deck"
	"simplepoker-server/pkg/game"
)

// testDB returns a migrated database, or skips the test if SPK_PG_DSN isn't set
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("SPK_PG_DSN")
	if dsn == "" {
		t.Skip("SPK_PG_DSN is not set")
	}

	dbh, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbh, "../../sql"))
	t.Cleanup(func() {
		_ = dbh.Close()
	})

	return dbh
}

// randomPlayerID keeps tests independent of each other's accounts
func randomPlayerID() int64 {
	return int64(uuid.New().ID())
}

func TestPostgres(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	p := NewPostgres(testDB(t), 100)
	playerID := randomPlayerID()

	balance, err := p.GetBalance(ctx, playerID)
	a.NoError(err)
	a.Equal(int64(100), balance)

	balance, err = p.ApplyDelta(ctx, playerID, -40)
	a.NoError(err)
	a.Equal(int64(60), balance)

	_, err = p.ApplyDelta(ctx, playerID, -61)
	a.True(errors.Is(err, game.ErrInsufficientBalance))

	balance, err = p.GetBalance(ctx, playerID)
	a.NoError(err)
	a.Equal(int64(60), balance)
}

func TestPostgres_ApplyDeltas(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	p := NewPostgres(testDB(t), 50)
	p1, p2 := randomPlayerID(), randomPlayerID()

	a.NoError(p.ApplyDeltas(ctx, []game.Delta{{PlayerID: p1, Amount: 20}, {PlayerID: p2, Amount: -20}}))

	err := p.ApplyDeltas(ctx, []game.Delta{{PlayerID: p1, Amount: 40}, {PlayerID: p2, Amount: -40}})
	a.True(errors.Is(err, game.ErrInsufficientBalance))

	b1, _ := p.GetBalance(ctx, p1)
	b2, _ := p.GetBalance(ctx, p2)
	a.Equal(int64(70), b1)
	a.Equal(int64(30), b2)
}

func TestPostgresHistory(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	h := NewPostgresHistory(testDB(t))
	roomID := uuid.New().String()

	result := &game.Result{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		WinnerID:  1,
		Winners:   []int64{1},
		Community: deck.CardsFromString("2c,5d,7h,9s,11c"),
		Pot:       20,
		TieBreak:  game.TieBreakSplit,
		Deltas:    []game.Delta{{PlayerID: 1, Amount: 10}, {PlayerID: 2, Amount: -10}},
		Created:   time.Now().UTC().Truncate(time.Second),
	}

	a.NoError(h.Record(ctx, result))

	results, err := h.Results(ctx, roomID, 10)
	a.NoError(err)
	if a.Len(results, 1) {
		a.Equal(result.ID, results[0].ID)
		a.Equal(result.Community, results[0].Community)
		a.Equal(result.Deltas, results[0].Deltas)
	}
}
