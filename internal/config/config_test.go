package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"simplepoker-server/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("SPK_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("SPK_GAME_STARTING_CHIPS", "750")
	defer clear2()
	clear3 := util.SetEnv("SPK_ENV_FILE", "testdata/test.env")
	defer clear3()
	defer os.Unsetenv("SPK_GAME_SHUFFLE")

	config = Config{}

	a := assert.New(t)
	cfg := Instance()
	a.Equal("postgres://poker@db:5432/poker?sslmode=disable", cfg.PGDSN)
	a.Equal("postgres", cfg.Ledger.Driver)
	a.Equal(250, cfg.Ledger.OpeningBalance)
	a.Equal(750, cfg.Game.StartingChips)
	a.Equal("holeCards", cfg.Game.TieBreak)
	a.Equal("crypto", cfg.Game.Shuffle)
	a.Equal(time.Minute*10, cfg.Room.IdleTimeout)
	a.Equal(time.Minute, cfg.Room.JanitorInterval)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("SPK_GAME_STARTING_CHIPS", "1000")
	// ensure we aren't using a pointer
	cfg.Game.StartingChips = 1
	cfg = Instance()
	a.Equal(750, cfg.Game.StartingChips)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("SPK_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "memory", cfg.Ledger.Driver)
	assert.Equal(t, 100, cfg.Game.StartingChips)
	assert.Equal(t, "split", cfg.Game.TieBreak)
	assert.Equal(t, time.Minute*30, cfg.Room.IdleTimeout)
}
