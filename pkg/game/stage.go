package game

import (
	"encoding/json"
	"fmt"
)

// Stage is the phase of a round
type Stage int

// Stage constants
const (
	StageInitial Stage = iota
	StageBetting
	StageReveal
)

// String returns the name of the stage
func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageBetting:
		return "betting"
	case StageReveal:
		return "reveal"
	}

	panic(fmt.Sprintf("unknown stage: %d", s))
}

// MarshalJSON encodes the stage by name
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// next returns the only legal transition out of the stage
func (s Stage) next() Stage {
	return (s + 1) % 3
}
