package mux

import (
	"context"
	"net/http"

	gmux "github.com/gorilla/mux"
	"simplepoker-server/pkg/game"
	"simplepoker-server/pkg/room"
)

// historyReader is implemented by the histories that can list results
type historyReader interface {
	Results(ctx context.Context, roomID string, limit int) ([]*game.Result, error)
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
	ledger  game.Ledger
	history historyReader
}

// NewMux returns a new HTTP mux
// history may be nil, in which case the history endpoint is not registered.
func NewMux(version string, pitBoss *room.PitBoss, ledger game.Ledger, history historyReader) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		ledger:  ledger,
		history: history,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/player/{id:[0-9]+}/balance").Handler(this.getPlayerIDBalance())

	r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())

	rr := r.PathPrefix("/room/{roomId:[A-Za-z0-9_-]{1,64}}").Subrouter()
	rr.Methods(http.MethodGet).Path("").Handler(this.getRoomID())
	rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomIDWS())
	if history != nil {
		rr.Methods(http.MethodGet).Path("/history").Handler(this.getRoomIDHistory())
	}

	return this
}
