// Package events carries upload lifecycle notifications from the simulation
// pipeline to whoever is listening: websocket clients, NATS, the Redis mirror.
package events

import (
	"time"

	"github.com/studyassist/backend/internal/models"
)

// Type names an upload lifecycle transition.
type Type string

const (
	UploadAccepted   Type = "upload.accepted"
	UploadProgress   Type = "upload.progress"
	UploadProcessing Type = "upload.processing"
	UploadCompleted  Type = "upload.completed"
	UploadFailed     Type = "upload.failed"
	UploadRemoved    Type = "upload.removed"
)

// Event is a snapshot of one record taken right after a transition.
type Event struct {
	Type      Type                `json:"type"`
	FileID    string              `json:"fileId"`
	File      models.UploadedFile `json:"file"`
	Timestamp int64               `json:"timestamp"` // Unix ms
}

// New stamps an event for f.
func New(t Type, f models.UploadedFile) Event {
	return Event{
		Type:      t,
		FileID:    f.ID,
		File:      f,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Sink receives events. Publish must not block the caller for long:
// it runs on the simulation goroutines.
type Sink interface {
	Publish(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Publish calls f(ev).
func (f SinkFunc) Publish(ev Event) { f(ev) }

// Fanout delivers each event to every sink in order.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(ev Event) {
	for _, s := range f {
		if s != nil {
			s.Publish(ev)
		}
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})
