package shell

import "sync"

// EventQueue carries events from arbitrary goroutines to the render
// thread. It is multiple-producer, single-consumer: any goroutine may
// Post, but only the run loop driver drains it, at the start of each
// tick. The queue is an explicit value injected into the driver at
// construction; there is no process-wide queue.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Post appends an event. Safe to call from any goroutine; never blocks
// beyond the internal lock.
func (q *EventQueue) Post(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain removes and returns all queued events in posting order.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()
	return events
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	n := len(q.events)
	q.mu.Unlock()
	return n
}
