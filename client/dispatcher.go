package client

import (
	"log"
	"sync"
)

// Handler consumes a dispatched event payload.
type Handler func(payload []byte)

// Dispatcher is an in-process event fan-out. Stores subscribe to the
// event names arriving over the WebSocket; the sync listener publishes
// into it.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler // event -> subscription id -> handler
}

// Subscription is a cancellation handle returned by Subscribe.
type Subscription struct {
	dispatcher *Dispatcher
	event      string
	id         int
	once       sync.Once
}

// Cancel removes the subscription. Calling it more than once is a
// no-op, so teardown paths can cancel unconditionally.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		if handlers, ok := s.dispatcher.subs[s.event]; ok {
			delete(handlers, s.id)
			if len(handlers) == 0 {
				delete(s.dispatcher.subs, s.event)
			}
		}
	})
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subs: make(map[string]map[int]Handler),
	}
}

// Subscribe registers a handler for an event name. The returned handle
// must be cancelled on teardown or the handler keeps firing.
func (d *Dispatcher) Subscribe(event string, handler Handler) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	if d.subs[event] == nil {
		d.subs[event] = make(map[int]Handler)
	}
	d.subs[event][d.nextID] = handler

	return &Subscription{
		dispatcher: d,
		event:      event,
		id:         d.nextID,
	}
}

// Publish delivers a payload to every handler subscribed to the event.
// A panicking handler is logged and skipped; the rest still run.
func (d *Dispatcher) Publish(event string, payload []byte) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.subs[event]))
	for _, handler := range d.subs[event] {
		handlers = append(handlers, handler)
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.invoke(event, handler, payload)
	}
}

func (d *Dispatcher) invoke(event string, handler Handler, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[client] handler for %s panicked: %v", event, r)
		}
	}()
	handler(payload)
}

// SubscriberCount returns the number of handlers for an event.
func (d *Dispatcher) SubscriberCount(event string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs[event])
}
