package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"simplepoker-server/pkg/game"
	"simplepoker-server/pkg/token"
)

type roomResponse struct {
	RoomID string `json:"roomId"`
}

// postRoom hands out a new room id
// The room itself is opened by the first websocket connection.
func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := token.RoomID()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, roomResponse{RoomID: roomID})
	}
}

func (m *Mux) getRoomID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer, ok := m.pitBoss.Dealer(gmux.Vars(r)["roomId"])
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		writeJSON(w, http.StatusOK, dealer.Room().Snapshot(game.PublicViewer))
	}
}

func (m *Mux) getRoomIDHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := parseRows(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		results, err := m.history.Results(r.Context(), gmux.Vars(r)["roomId"], rows)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}
