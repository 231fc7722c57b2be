package game

import "simplepoker-server/pkg/deck"

// PublicViewer is a viewer that isn't seated, such as a spectator
const PublicViewer int64 = 0

// PlayerSnapshot is a player as seen by a viewer
type PlayerSnapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Chips int64  `json:"chips"`
	Bet   int64  `json:"bet"`

	// HoleCards is empty when the viewer may not see them, see HiddenCards
	HoleCards   deck.Hand `json:"holeCards"`
	HiddenCards int       `json:"hiddenCards"`
}

// Snapshot is the room as seen by a viewer
type Snapshot struct {
	RoomID         string            `json:"roomId"`
	Stage          Stage             `json:"stage"`
	Pot            int64             `json:"pot"`
	Carry          int64             `json:"carry"`
	CommunityCards deck.Hand         `json:"communityCards"`
	DealOrder      []int64           `json:"dealOrder"`
	Players        []*PlayerSnapshot `json:"players"`
	Result         *Result           `json:"result,omitempty"`
}

// Snapshot returns the state of the room for the viewer
// Hole cards are only visible to their owner until the reveal stage.
func (r *Room) Snapshot(viewerID int64) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Snapshot{
		RoomID:         r.ID,
		Stage:          r.stage,
		Pot:            r.pot,
		Carry:          r.carry,
		CommunityCards: r.community.Clone(),
		DealOrder:      append([]int64(nil), r.dealOrder...),
		Players:        make([]*PlayerSnapshot, len(r.players)),
		Result:         r.result,
	}

	if s.CommunityCards == nil {
		s.CommunityCards = deck.Hand{}
	}

	for i, p := range r.players {
		ps := &PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			Bet:       p.Bet,
			HoleCards: deck.Hand{},
		}

		if r.stage == StageReveal || (viewerID != PublicViewer && viewerID == p.ID) {
			ps.HoleCards = p.HoleCards.Clone()
		} else {
			ps.HiddenCards = len(p.HoleCards)
		}

		if ps.HoleCards == nil {
			ps.HoleCards = deck.Hand{}
		}

		s.Players[i] = ps
	}

	return s
}
