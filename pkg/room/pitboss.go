package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"simplepoker-server/pkg/game"
)

// Options configures the PitBoss
type Options struct {
	Game    game.Options
	Ledger  game.Ledger
	History game.History

	// IdleTimeout is how long a room without clients is kept
	IdleTimeout time.Duration

	// JanitorInterval is how often idle rooms are looked for
	JanitorInterval time.Duration
}

// PitBoss is responsible for dispatching players to rooms
// Rooms are created on first connect and evicted once idle.
type PitBoss struct {
	opts    Options
	clock   quartz.Clock
	dealers map[string]*Dealer
	lock    sync.RWMutex

	// seats maps a seated player to their room
	// A player holds at most one seat, so a ledger balance is never staked twice.
	seats     map[int64]string
	seatsLock sync.Mutex
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(opts Options) *PitBoss {
	clock := opts.Game.Clock
	if clock == nil {
		clock = quartz.NewReal()
		opts.Game.Clock = clock
	}

	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = time.Minute
	}

	return &PitBoss{
		opts:    opts,
		clock:   clock,
		dealers: make(map[string]*Dealer),
		seats:   make(map[int64]string),
	}
}

// takeSeat reserves the player's only seat for the room
func (p *PitBoss) takeSeat(playerID int64, roomID string) error {
	p.seatsLock.Lock()
	defer p.seatsLock.Unlock()

	if seatedIn, ok := p.seats[playerID]; ok {
		if seatedIn == roomID {
			return game.ErrAlreadySeated
		}

		return fmt.Errorf("%w in room %s", game.ErrAlreadySeated, seatedIn)
	}

	p.seats[playerID] = roomID
	return nil
}

// releaseSeat frees the player's seat if it is in the room
func (p *PitBoss) releaseSeat(playerID int64, roomID string) {
	p.seatsLock.Lock()
	defer p.seatsLock.Unlock()

	if p.seats[playerID] == roomID {
		delete(p.seats, playerID)
	}
}

// releaseRoom frees every seat in the room
func (p *PitBoss) releaseRoom(roomID string) {
	p.seatsLock.Lock()
	defer p.seatsLock.Unlock()

	for playerID, seatedIn := range p.seats {
		if seatedIn == roomID {
			delete(p.seats, playerID)
		}
	}
}

// Dealer returns the dealer running the room, if the room exists
func (p *PitBoss) Dealer(roomID string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	d, ok := p.dealers[roomID]
	return d, ok
}

// RoomCount returns the number of open rooms
func (p *PitBoss) RoomCount() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.dealers)
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.lock.Lock()
	defer p.lock.Unlock()

	logrus.WithField("client", client.String()).Debug("client connected")
	dealer, found := p.dealers[client.RoomID]
	if !found {
		dealer = NewDealer(p, game.NewRoom(client.RoomID, p.opts.Game))
		dealer.StartShift()
		p.dealers[client.RoomID] = dealer
	}

	dealer.AddClient(client)
}

// ClientDisconnected is called when a client disconnects from the server
// The room is kept until the janitor finds it idle.
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	logrus.WithField("client", client.String()).Debug("client disconnected")
	dealer, found := p.dealers[client.RoomID]
	if !found {
		logrus.WithField("roomId", client.RoomID).WithField("type", "exception").Error("room not found")
		return
	}

	dealer.RemoveClient(client)
}

// RunJanitor evicts idle rooms until ctx is done
func (p *PitBoss) RunJanitor(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.opts.JanitorInterval, "janitor")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.evictIdle()
		}
	}
}

// evictIdle removes rooms with no clients that have been idle for IdleTimeout
func (p *PitBoss) evictIdle() []string {
	p.lock.Lock()
	defer p.lock.Unlock()

	now := p.clock.Now()
	var evicted []string
	for roomID, dealer := range p.dealers {
		if dealer.ClientCount() > 0 {
			continue
		}

		if now.Sub(dealer.idleSince()) < p.opts.IdleTimeout {
			continue
		}

		dealer.EndShift()
		delete(p.dealers, roomID)
		p.releaseRoom(roomID)
		evicted = append(evicted, roomID)
	}

	if len(evicted) > 0 {
		logrus.WithField("rooms", evicted).Info("evicted idle rooms")
	}

	return evicted
}

// Close ends every dealer's shift
func (p *PitBoss) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	for roomID, dealer := range p.dealers {
		dealer.EndShift()
		delete(p.dealers, roomID)
		p.releaseRoom(roomID)
	}
}
