// recorder.go - Test doubles shared across packages
package testutil

import (
	"sync"

	"github.com/studyassist/backend/internal/events"
)

// EventRecorder implements events.Sink and keeps every event for inspection.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) Publish(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// For returns the events recorded for one file, in order.
func (r *EventRecorder) For(fileID string) []events.Event {
	var out []events.Event
	for _, ev := range r.Events() {
		if ev.FileID == fileID {
			out = append(out, ev)
		}
	}
	return out
}

// Types returns the event types recorded for one file, in order.
func (r *EventRecorder) Types(fileID string) []events.Type {
	var out []events.Type
	for _, ev := range r.For(fileID) {
		out = append(out, ev.Type)
	}
	return out
}

// Count returns how many events of type t were recorded.
func (r *EventRecorder) Count(t events.Type) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// Constant returns a random source that always yields v.
func Constant(v float64) func() float64 {
	return func() float64 { return v }
}

// Sequence returns a random source cycling through values.
func Sequence(values ...float64) func() float64 {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		v := values[i%len(values)]
		i++
		return v
	}
}
