package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vigil/internal/crypto"
)

// Sink receives serialized audit events for out-of-process delivery
// (message broker, SIEM). Delivery is best effort; the store is the
// system of record.
type Sink interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	sink   Sink
	events chan Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// WithSink adds a best-effort out-of-process sink alongside the store.
func WithSink(sink Sink) PublisherOption {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		p.persist(context.Background(), event)
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit records one audit event. Missing ID, timestamp, and hash fields are
// filled in before delivery.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Hash == "" {
		event.Hash = crypto.GenerateAuditHash(string(event.Action) + "|" + event.ActorID + "|" + event.SubjectID)
	}

	if p.async {
		// Non-blocking send; drop event if buffer is full to avoid blocking hot path
		select {
		case p.events <- event:
			return nil
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", event.Action,
					"subject_id", event.SubjectID,
				)
			}
			return nil
		}
	}
	p.persist(ctx, event)
	return nil
}

func (p *Publisher) persist(ctx context.Context, event Event) {
	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"subject_id", event.SubjectID,
			)
		}
	}
	if p.sink == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("failed to marshal audit event for sink", "error", err)
		}
		return
	}
	if err := p.sink.Publish(ctx, []byte(event.SubjectID), value); err != nil {
		if p.logger != nil {
			p.logger.Error("failed to publish audit event to sink",
				"error", err,
				"action", event.Action,
			)
		}
	}
}

// List returns the audit trail for one subject.
func (p *Publisher) List(ctx context.Context, subjectID string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}
