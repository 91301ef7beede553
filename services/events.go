package services

import (
	"log"
	"sync"
)

// Settlement event kinds published by the engines after a commit.
const (
	EventAuctionCreated = "auction-create"
	EventCardPurchased  = "card-purchase"
	EventBoxPurchased   = "box-purchase"
	EventBoxOpened      = "box-open"
	EventBoxGifted      = "box-gift"
)

// SettlementEvent is the payload fanned out to subscribers after a
// settlement transaction commits.
type SettlementEvent struct {
	Kind    string
	UserID  string
	Payload any
}

// EventBus is a small in-process pub/sub. Publishing never blocks a
// settlement: a saturated subscriber loses the event and the drop is logged.
type EventBus struct {
	mu   sync.RWMutex
	subs []chan SettlementEvent
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (b *EventBus) Subscribe(buffer int) <-chan SettlementEvent {
	ch := make(chan SettlementEvent, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish fans the event out to every subscriber. Must be called only after
// the settlement transaction has committed.
func (b *EventBus) Publish(e SettlementEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			log.Printf("[EventBus] subscriber full, dropping %s event", e.Kind)
		}
	}
}
