package mux

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMux_getPlayerIDBalance(t *testing.T) {
	a := assert.New(t)
	ts := newTestServer(t, "")

	var resp balanceResponse
	assertGet(t, ts.Server, "/player/42/balance", &resp, 200)
	a.Equal(balanceResponse{PlayerID: 42, Balance: 100}, resp)

	_, err := ts.ledger.ApplyDelta(context.Background(), 42, -30)
	a.NoError(err)
	assertGet(t, ts.Server, "/player/42/balance", &resp, 200)
	a.Equal(int64(70), resp.Balance)

	var errResp errorResponse
	assertGet(t, ts.Server, "/player/0/balance", &errResp, 404)
	a.Equal("Not Found", errResp.Message)

	assertGet(t, ts.Server, "/player/abc/balance", nil, 404)
}
