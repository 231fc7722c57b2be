package mux

import (
	"net/http"
	"strconv"

	gmux "github.com/gorilla/mux"
)

type balanceResponse struct {
	PlayerID int64 `json:"playerId"`
	Balance  int64 `json:"balance"`
}

func (m *Mux) getPlayerIDBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(gmux.Vars(r)["id"], 10, 64)
		if err != nil || id == 0 {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		balance, err := m.ledger.GetBalance(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, balanceResponse{
			PlayerID: id,
			Balance:  balance,
		})
	}
}
