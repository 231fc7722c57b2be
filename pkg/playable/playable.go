package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"simplepoker-server/pkg/deck"
)

// Actions a client can send
const (
	ActionJoinRoom      = "joinRoom"
	ActionPlaceBet      = "placeBet"
	ActionDealCards     = "dealCards"
	ActionRevealCards   = "revealCards"
	ActionStartNewRound = "startNewRound"
	ActionLeaveRoom     = "leaveRoom"
)

// Response keys
const (
	KeyRoomSnapshot = "roomSnapshot"
	KeyBetUpdate    = "betUpdate"
	KeyGameResult   = "gameResult"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyLog          = "log"
)

// LogMessage is a message shown in the room's activity log
// If PlayerIDs is empty, it's a general statement, otherwise the message reads like "{player} did X"
type LogMessage struct {
	UUID      string      `json:"uuid"`
	PlayerIDs []int64     `json:"playerIds"`
	Cards     []deck.Card `json:"cards"`
	Message   string      `json:"message"`
	Time      time.Time   `json:"time"`
}

// Response is a message sent to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   KeyStatus,
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// ErrorResponse returns an error response for the given context
func ErrorResponse(ctx string, err error) *Response {
	return &Response{
		Key:     KeyError,
		Value:   err.Error(),
		Context: ctx,
	}
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt64 returns an integer value for the given key
// Fractional numbers are rejected.
func (a AdditionalData) GetInt64(key string) (int64, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	if floatVal != float64(int64(floatVal)) {
		return 0, false
	}

	return int64(floatVal), true
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	if !ok {
		return false, false
	}

	return boolVal, true
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(playerID int64, format string, a ...interface{}) *LogMessage {
	var playerIDs []int64
	if playerID > 0 {
		playerIDs = []int64{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}
