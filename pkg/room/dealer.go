package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"simplepoker-server/pkg/game"
	"simplepoker-server/pkg/playable"
)

// errInternal is sent to clients in place of errors they shouldn't see
var errInternal = errors.New("internal error")

// errSettlement is sent when the ledger rejected a payout
var errSettlement = errors.New("could not settle the pot, please try again")

// roomState is the roomSnapshot payload
type roomState struct {
	*game.Snapshot
	Log []*playable.LogMessage `json:"log"`
}

// Dealer owns a room and serializes every action on it through its run loop
type Dealer struct {
	pitBoss *PitBoss
	room    *game.Room
	clients map[*Client]bool
	lock    sync.RWMutex

	// lastDisconnect is when the last client left
	lastDisconnect time.Time

	logMessages []*playable.LogMessage
	log         *logrus.Entry

	execInRunLoop chan func()
	close         chan bool
	closeOnce     sync.Once
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, room *game.Room) *Dealer {
	return &Dealer{
		pitBoss:        pitBoss,
		room:           room,
		clients:        make(map[*Client]bool),
		lastDisconnect: pitBoss.clock.Now(),
		log:            logrus.WithField("roomId", room.ID),
		execInRunLoop:  make(chan func(), 256),
		close:          make(chan bool),
	}
}

// Room returns the room the dealer is running
func (d *Dealer) Room() *game.Room {
	return d.room
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// ClientCount returns the number of connected clients
func (d *Dealer) ClientCount() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return len(d.clients)
}

// idleSince returns when the room was last used
func (d *Dealer) idleSince() time.Time {
	d.lock.RLock()
	last := d.lastDisconnect
	d.lock.RUnlock()

	if active := d.room.LastActive(); active.After(last) {
		return active
	}

	return last
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// closeReason is sent to clients still connected when the shift ends
const closeReason = "room closed"

// EndShift is called when the dealer is no longer needed
// Clients still connected are asked to close.
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
		for _, client := range d.Clients() {
			client.close(closeReason)
		}
	})
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.exec(func() {
		client.Send(d.stateFor(client))
	})
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	if nClients == 0 {
		d.lastDisconnect = d.pitBoss.clock.Now()
	}
	d.lock.Unlock()

	return nClients == 0
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.exec(func() {
		d.handle(c, msg)
	})
}

// exec queues fn for the run loop, unless the shift has ended
func (d *Dealer) exec(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
		d.log.Warn("dealer shift ended, dropping message")
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handle(c *Client, msg *playable.PayloadIn) {
	log := d.log.WithFields(logrus.Fields{
		"client": c.String(),
		"action": msg.Action,
	})

	switch msg.Action {
	case playable.ActionJoinRoom:
		if err := d.pitBoss.takeSeat(c.PlayerID, d.room.ID); err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		chips, err := d.buyIn(c.PlayerID)
		if err == nil {
			err = d.room.JoinWithChips(c.PlayerID, chips)
		}

		if err != nil {
			d.pitBoss.releaseSeat(c.PlayerID, d.room.ID)
			d.sendError(c, msg.Context, err)
			return
		}

		name := ""
		if p, ok := d.room.Player(c.PlayerID); ok {
			name = p.Name
		}

		log.WithField("chips", chips).WithField("name", name).Debug("player joined")
		d.addLogMessages(playable.SimpleLogMessage(c.PlayerID, "%s joined with %d chips", name, chips))
		c.Send(playable.OK(msg.Context))
		d.broadcastState()
	case playable.ActionPlaceBet:
		amount, ok := msg.AdditionalData.GetInt64("amount")
		if !ok {
			d.sendError(c, msg.Context, game.ErrInvalidAmount)
			return
		}

		update, err := d.room.PlaceBet(c.PlayerID, amount)
		if err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		d.addLogMessages(playable.SimpleLogMessage(c.PlayerID, "bet %d", amount))
		c.Send(playable.OK(msg.Context))
		d.broadcast(&playable.Response{
			Key:  playable.KeyBetUpdate,
			Data: update,
		})
	case playable.ActionDealCards:
		if err := d.room.DealInitial(); err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		log.Debug("cards dealt")
		d.addLogMessages(playable.SimpleLogMessage(0, "cards dealt"))
		c.Send(playable.OK(msg.Context))
		d.broadcastState()
	case playable.ActionRevealCards:
		result, err := d.room.Reveal(context.Background(), d.pitBoss.opts.Ledger)
		if err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		log.WithFields(logrus.Fields{
			"resultId": result.ID,
			"winners":  result.Winners,
			"pot":      result.Pot,
		}).Info("pot settled")
		d.recordResult(result)
		d.addLogMessages(resultLogMessage(result))
		c.Send(playable.OK(msg.Context))
		d.broadcast(&playable.Response{
			Key:  playable.KeyGameResult,
			Data: result,
		})
		d.broadcastState()
	case playable.ActionStartNewRound:
		if err := d.room.StartNewRound(); err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		log.Debug("new round")
		d.addLogMessages(playable.SimpleLogMessage(0, "new round"))
		c.Send(playable.OK(msg.Context))
		d.broadcastState()
	case playable.ActionLeaveRoom:
		player, err := d.room.Leave(c.PlayerID)
		if err != nil {
			d.sendError(c, msg.Context, err)
			return
		}

		d.pitBoss.releaseSeat(c.PlayerID, d.room.ID)
		log.WithField("chips", player.Chips).Debug("player left")
		d.addLogMessages(playable.SimpleLogMessage(c.PlayerID, "left the room"))
		c.Send(playable.OK(msg.Context))
		d.broadcastState()
	default:
		log.WithField("msg", msg).Warn("unknown message")
		c.Send(playable.ErrorResponse(msg.Context, fmt.Errorf("unknown action: %s", msg.Action)))
	}
}

// buyIn returns the chips a player sits down with
// The configured starting chips are capped by the player's ledger balance.
func (d *Dealer) buyIn(playerID int64) (int64, error) {
	chips := d.pitBoss.opts.Game.StartingChips
	if d.pitBoss.opts.Ledger == nil {
		return chips, nil
	}

	balance, err := d.pitBoss.opts.Ledger.GetBalance(context.Background(), playerID)
	if err != nil {
		return 0, err
	}

	if balance < chips {
		chips = balance
	}

	return chips, nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) recordResult(result *game.Result) {
	history := d.pitBoss.opts.History
	if history == nil {
		return
	}

	if err := history.Record(context.Background(), result); err != nil {
		d.log.WithError(err).WithField("resultId", result.ID).Error("could not record game")
	}
}

func resultLogMessage(result *game.Result) *playable.LogMessage {
	var lm *playable.LogMessage
	if result.IsSplit() {
		lm = playable.SimpleLogMessage(0, "split the pot of %d with %s", result.Pot, result.WinnerHand.Category)
		lm.PlayerIDs = result.Winners
	} else {
		lm = playable.SimpleLogMessage(result.WinnerID, "won %d with %s", result.Pot, result.WinnerHand.Category)
	}

	if h, ok := result.Hand(result.Winners[0]); ok {
		lm.Cards = h.BestCards
	}

	return lm
}

// sendError sends err to the client, hiding anything that isn't a game error
func (d *Dealer) sendError(c *Client, ctx string, err error) {
	var settlementErr *game.SettlementError
	switch {
	case errors.As(err, &settlementErr) && !game.IsUserError(err):
		d.log.WithError(err).WithField("client", c.String()).Error("could not settle the pot")
		err = errSettlement
	case !game.IsUserError(err):
		d.log.WithError(err).WithField("client", c.String()).Error("could not perform action")
		err = errInternal
	}

	c.Send(playable.ErrorResponse(ctx, err))
}

// NOTE: must only be called from the run loop
func (d *Dealer) stateFor(c *Client) *playable.Response {
	return &playable.Response{
		Key: playable.KeyRoomSnapshot,
		Data: &roomState{
			Snapshot: d.room.Snapshot(c.PlayerID),
			Log:      append([]*playable.LogMessage(nil), d.logMessages...),
		},
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastState() {
	for _, client := range d.Clients() {
		client.Send(d.stateFor(client))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(res *playable.Response) {
	for _, client := range d.Clients() {
		client.Send(res)
	}
}
