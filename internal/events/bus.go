// Package events fans domain events out to the realtime feed and the broker.
package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	PoolCreated         = "pool.created"
	PoolCrashed         = "pool.crashed"
	BetPlaced           = "bet.placed"
	BetSettled          = "bet.settled"
	TournamentFinalized = "tournament.finalized"
)

// Event is one domain occurrence.
type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// Sink receives published events.
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev Event) error
}

// Bus delivers each event to every sink. Delivery is best effort.
type Bus struct {
	sinks []Sink
	log   *logrus.Entry
}

func NewBus(sinks ...Sink) *Bus {
	return &Bus{sinks: sinks, log: logrus.WithField("component", "events")}
}

// Add registers another sink. Not safe once publishing has started.
func (b *Bus) Add(s Sink) {
	b.sinks = append(b.sinks, s)
}

// Publish is a no-op on a nil bus.
func (b *Bus) Publish(ctx context.Context, typ string, data interface{}) {
	if b == nil {
		return
	}
	ev := Event{Type: typ, At: time.Now().UTC(), Data: data}
	for _, s := range b.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{"sink": s.Name(), "event": typ}).Warn("publish failed")
		}
	}
}
