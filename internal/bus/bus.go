// Package bus is the in-process publish/subscribe channel screens use to
// keep their independent view states consistent. Fan-out is synchronous:
// Publish returns after every current subscriber ran. Payload shapes are
// the typed contracts in internal/domain/events.go.
package bus

import (
	"sync"

	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// Handler receives every payload published on a topic.
type Handler func(payload any)

// Subscription identifies one registered handler so it can be removed.
type Subscription struct {
	topic string
	id    uint64
}

// Bus dispatches events to subscribers by topic name.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string]map[uint64]Handler
	log    *logger.Logger
}

// New creates an empty bus. The logger may be nil.
func New(log *logger.Logger) *Bus {
	return &Bus{topics: make(map[string]map[uint64]Handler), log: log}
}

// Subscribe registers a handler for a topic and returns its handle.
func (b *Bus) Subscribe(topic string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[uint64]Handler)
	}
	b.topics[topic][b.nextID] = h
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown handles
// are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.topics[s.topic]; ok {
		delete(handlers, s.id)
		if len(handlers) == 0 {
			delete(b.topics, s.topic)
		}
	}
}

// Publish fans a payload out to the topic's current subscribers. A
// panicking handler is recovered and logged; it never takes down the
// publisher or the remaining subscribers.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.topics[topic]))
	for _, h := range b.topics[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(topic, h, payload)
	}
}

func (b *Bus) dispatch(topic string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Warn("event handler panicked", "topic", topic, "panic", r)
		}
	}()
	h(payload)
}

// RemoveAll drops every subscriber of a topic, or every subscriber of
// every topic when topic is empty.
func (b *Bus) RemoveAll(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if topic == "" {
		b.topics = make(map[string]map[uint64]Handler)
		return
	}
	delete(b.topics, topic)
}
