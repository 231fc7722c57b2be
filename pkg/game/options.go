package game

import (
	"fmt"

	"github.com/coder/quartz"
	"simplepoker-server/internal/rng"
)

// TieBreak decides how equal hands are resolved at showdown
type TieBreak string

// TieBreak constants
const (
	// TieBreakSplit splits the pot when the best five cards are equal
	TieBreakSplit TieBreak = "split"

	// TieBreakHoleCards compares the hole cards, highest first, and only splits if they are equal too
	TieBreakHoleCards TieBreak = "holeCards"
)

// ParseTieBreak returns the TieBreak for the name
// An empty name is the default, TieBreakSplit
func ParseTieBreak(name string) (TieBreak, error) {
	switch TieBreak(name) {
	case "", TieBreakSplit:
		return TieBreakSplit, nil
	case TieBreakHoleCards:
		return TieBreakHoleCards, nil
	}

	return "", fmt.Errorf("unknown tie break: %s", name)
}

// Options configures a room
type Options struct {
	// StartingChips is the stack a player is seated with when Join is used
	StartingChips int64
	TieBreak      TieBreak
	Shuffler      rng.Generator
	Clock         quartz.Clock
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		StartingChips: 100,
		TieBreak:      TieBreakSplit,
		Shuffler:      rng.NewMath(0),
		Clock:         quartz.NewReal(),
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.TieBreak == "" {
		o.TieBreak = defaults.TieBreak
	}

	if o.Shuffler == nil {
		o.Shuffler = defaults.Shuffler
	}

	if o.Clock == nil {
		o.Clock = defaults.Clock
	}

	return o
}
