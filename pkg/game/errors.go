package game

import (
	"errors"
	"fmt"
)

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// ErrWrongStage is returned when an action is attempted in the wrong stage
var ErrWrongStage = UserError("action is not allowed in the current stage")

// ErrRoomFull is returned when a third player tries to join
var ErrRoomFull = UserError("room is full")

// ErrNotEnoughPlayers is returned when cards are dealt without two seated players
var ErrNotEnoughPlayers = UserError("two players are required")

// ErrInsufficientBalance is returned when a bet or debit exceeds the available balance
var ErrInsufficientBalance = UserError("insufficient balance")

// ErrPlayerNotFound is returned when the player is not seated in the room
var ErrPlayerNotFound = UserError("player not found")

// ErrAlreadySeated is returned when a seated player tries to join again
var ErrAlreadySeated = UserError("player is already seated")

// ErrInvalidAmount is returned for bets that are not positive
var ErrInvalidAmount = UserError("amount must be greater than zero")

// StageError is returned when an operation is not legal in the room's stage
type StageError struct {
	Op    string
	Stage Stage
}

func (s *StageError) Error() string {
	return fmt.Sprintf("cannot %s during the %s stage", s.Op, s.Stage)
}

// Unwrap allows errors.Is(err, ErrWrongStage)
func (s *StageError) Unwrap() error {
	return ErrWrongStage
}

// SettlementError is returned when the ledger rejected a showdown payout
// The room stays in the betting stage, so the reveal can be retried.
type SettlementError struct {
	Err error
}

func (s *SettlementError) Error() string {
	return "could not settle the pot: " + s.Err.Error()
}

func (s *SettlementError) Unwrap() error {
	return s.Err
}

// Retryable is always true, the room state has not changed
func (s *SettlementError) Retryable() bool {
	return true
}

// IsUserError returns true if the error can be shown to a player as is
func IsUserError(err error) bool {
	var userErr UserError
	return errors.As(err, &userErr)
}
