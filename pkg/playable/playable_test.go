package playable

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLogMessage(t *testing.T) {
	before := time.Now()
	lm := SimpleLogMessage(0, "test %d", 5)
	assert.Equal(t, "test 5", lm.Message)
	assert.Nil(t, lm.PlayerIDs)
	assert.False(t, lm.Time.Before(before))
	assert.False(t, time.Now().Before(lm.Time))
	assert.Nil(t, lm.Cards)
	assert.Len(t, lm.UUID, 36)
}

func TestSimpleLogMessage_withPlayerID(t *testing.T) {
	lm := SimpleLogMessage(1, "test %d", 4)
	assert.Equal(t, "test 4", lm.Message)
	assert.Equal(t, []int64{1}, lm.PlayerIDs)
}

func TestOK(t *testing.T) {
	assert.Equal(t, &Response{Key: "status", Value: "OK"}, OK())
	assert.Equal(t, &Response{Key: "status", Value: "OK", Context: "abc"}, OK("abc"))
}

func TestErrorResponse(t *testing.T) {
	assert.Equal(t, &Response{Key: "error", Value: "bad", Context: "ctx"}, ErrorResponse("ctx", errors.New("bad")))
}

func TestAdditionalData(t *testing.T) {
	a := assert.New(t)

	var payload PayloadIn
	a.NoError(json.Unmarshal([]byte(`{"action":"placeBet","additionalData":{"amount":25,"half":2.5,"name":"x","ok":true},"context":"c1"}`), &payload))
	a.Equal(ActionPlaceBet, payload.Action)
	a.Equal("c1", payload.Context)

	amount, ok := payload.AdditionalData.GetInt64("amount")
	a.True(ok)
	a.Equal(int64(25), amount)

	_, ok = payload.AdditionalData.GetInt64("half")
	a.False(ok)

	_, ok = payload.AdditionalData.GetInt64("missing")
	a.False(ok)

	name, ok := payload.AdditionalData.GetString("name")
	a.True(ok)
	a.Equal("x", name)

	b, ok := payload.AdditionalData.GetBool("ok")
	a.True(ok)
	a.True(b)

	_, ok = payload.AdditionalData.GetBool("name")
	a.False(ok)
}
