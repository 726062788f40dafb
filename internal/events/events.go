// Package events publishes swap lifecycle events for downstream consumers
// (notifications, archival). Publication is best-effort: the ledger has
// already committed by the time an event is sent.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Event types.
const (
	SwapProposed      = "swap.proposed"
	SwapAccepted      = "swap.accepted"
	SwapDeclined      = "swap.declined"
	SwapMeetupPending = "swap.meetup_pending"
	SwapCompleted     = "swap.completed"
	SwapCancelled     = "swap.cancelled"
	SwapDeleted       = "swap.deleted"
	MessageSent       = "swap.message"
)

// Event describes one change to a swap.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	SwapID     int64     `json:"swap_id"`
	Status     string    `json:"status,omitempty"`
	ActorID    int64     `json:"actor_id"`
	ProposerID int64     `json:"proposer_id"`
	ReceiverID int64     `json:"receiver_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEvent fills in the event ID and timestamp.
func NewEvent(eventType string, swapID, actorID, proposerID, receiverID int64, status string) Event {
	return Event{
		EventID:    uuid.New().String(),
		Type:       eventType,
		SwapID:     swapID,
		Status:     status,
		ActorID:    actorID,
		ProposerID: proposerID,
		ReceiverID: receiverID,
		Timestamp:  time.Now().UTC(),
	}
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Subject returns the NATS subject for an event: "<prefix>.<swap id>.<type>".
func Subject(prefix string, e Event) string {
	return fmt.Sprintf("%s.%d.%s", prefix, e.SwapID, e.Type)
}

// NATSPublisher publishes events as JSON on a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "rewear.swaps"

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("rewear"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.conn.Publish(Subject(p.prefix, e), data); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
