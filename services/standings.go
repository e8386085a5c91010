package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecowattch-server/entities"
	"ecowattch-server/logger"
	"ecowattch-server/repositories"
)

// Broadcaster fans a message out to every live subscriber.
type Broadcaster interface {
	Broadcast(payload []byte) int
}

// StandingsMessage is pushed to standings subscribers.
type StandingsMessage struct {
	Type  string          `json:"type"`
	Dorms []entities.Dorm `json:"dorms"`
}

const broadcastTimeout = 10 * time.Second

// StandingsPublisher reloads dorm totals and pushes them to subscribers from
// its own goroutine, see Run.
type StandingsPublisher struct {
	dorms   repositories.DormRepository
	hub     Broadcaster
	log     *logger.Logger
	pending chan struct{}
}

func NewStandingsPublisher(dorms repositories.DormRepository, hub Broadcaster, log *logger.Logger) *StandingsPublisher {
	return &StandingsPublisher{
		dorms:   dorms,
		hub:     hub,
		log:     log,
		pending: make(chan struct{}, 1),
	}
}

// Snapshot returns the encoded standings message.
func (p *StandingsPublisher) Snapshot(ctx context.Context) ([]byte, error) {
	dorms, err := p.dorms.List(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(StandingsMessage{Type: "standings", Dorms: dorms})
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings: %w", err)
	}
	return b, nil
}

// StandingsChanged schedules a broadcast and returns immediately. Changes
// that arrive while one is pending collapse into it, since every broadcast
// reloads the latest totals.
func (p *StandingsPublisher) StandingsChanged(ctx context.Context) {
	select {
	case p.pending <- struct{}{}:
	default:
		p.log.DebugContext(ctx, "standings broadcast already pending")
	}
}

// Run delivers scheduled broadcasts until ctx is canceled. Failures are
// logged only; the increment that triggered them is already committed.
func (p *StandingsPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.pending:
			p.broadcast(ctx)
		}
	}
}

func (p *StandingsPublisher) broadcast(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	payload, err := p.Snapshot(ctx)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to load standings for broadcast", "error", err)
		return
	}
	n := p.hub.Broadcast(payload)
	p.log.DebugContext(ctx, "standings broadcast", "subscribers", n)
}
