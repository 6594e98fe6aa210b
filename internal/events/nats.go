package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Connect dials a NATS server for event publishing.
func Connect(url, name string, maxReconnects int) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(maxReconnects),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// Publisher is the subset of *nats.Conn used for publishing.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink forwards events to NATS as JSON on "<prefix>.<event type>".
type NATSSink struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

// NewNATSSink creates a sink publishing under prefix.
func NewNATSSink(pub Publisher, prefix string, logger *slog.Logger) *NATSSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSSink{pub: pub, prefix: prefix, logger: logger.With("component", "nats")}
}

// Subject returns the subject an event of type t is published on.
func (s *NATSSink) Subject(t Type) string {
	return s.prefix + "." + string(t)
}

// Publish implements Sink.
func (s *NATSSink) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("marshal event", "error", err)
		return
	}
	if err := s.pub.Publish(s.Subject(ev.Type), data); err != nil {
		s.logger.Warn("publish event",
			slog.String("subject", s.Subject(ev.Type)),
			slog.String("file_id", ev.FileID),
			slog.String("error", err.Error()),
		)
	}
}
