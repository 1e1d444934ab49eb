package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/logger"
	"github.com/deskward/deskward/pkg/metrics"
)

const (
	// DefaultAuditBuffer is the queue length used when none is configured.
	DefaultAuditBuffer = 256

	maxRecorderBatch = 64
)

// AuditRecorder is the asynchronous tenancy.AuditSink. Events are logged immediately and
// persisted by a single background goroutine; when the queue is full the event is dropped.
type AuditRecorder struct {
	audit  *AuditService
	log    *zap.Logger
	events chan tenancy.Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAuditRecorder starts a recorder persisting through audit. buffer <= 0 selects
// DefaultAuditBuffer.
func NewAuditRecorder(audit *AuditService, buffer int) (*AuditRecorder, error) {
	if audit == nil {
		return nil, errors.New("audit recorder: audit service is required")
	}
	if buffer <= 0 {
		buffer = DefaultAuditBuffer
	}

	r := &AuditRecorder{
		audit:  audit,
		log:    logger.WithModule("audit"),
		events: make(chan tenancy.Event, buffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Record implements tenancy.AuditSink. It never blocks.
func (r *AuditRecorder) Record(event tenancy.Event) {
	r.log.Warn("authorization event", eventFields(event)...)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		metrics.AuditDropped.Inc()
		return
	}

	select {
	case r.events <- event:
	default:
		metrics.AuditDropped.Inc()
		r.log.Warn("audit queue full, event dropped", zap.String("action", event.Action))
	}
}

// Close stops accepting events and waits until queued events are written or ctx expires.
func (r *AuditRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Backlog reports the number of queued events and the queue capacity.
func (r *AuditRecorder) Backlog() (queued, capacity int) {
	return len(r.events), cap(r.events)
}

// run writes queued events, draining whatever is already waiting into the same batch.
func (r *AuditRecorder) run() {
	defer close(r.done)
	for event := range r.events {
		batch := append(make([]AuditEntry, 0, maxRecorderBatch), entryFromEvent(event))
		batch = r.drain(batch)
		if err := r.audit.LogBatch(context.Background(), batch); err != nil {
			r.log.Error("persist audit events", zap.Int("count", len(batch)), zap.Error(err))
		}
	}
}

func (r *AuditRecorder) drain(batch []AuditEntry) []AuditEntry {
	for len(batch) < maxRecorderBatch {
		select {
		case event, ok := <-r.events:
			if !ok {
				return batch
			}
			batch = append(batch, entryFromEvent(event))
		default:
			return batch
		}
	}
	return batch
}

func entryFromEvent(event tenancy.Event) AuditEntry {
	entry := AuditEntry{
		Email:          event.Email,
		OrganizationID: event.OrganizationID,
		Action:         event.Action,
		Resource:       event.Resource,
		ResourceID:     event.ResourceID,
		Result:         event.Result,
		Path:           event.Path,
		Metadata:       map[string]any{},
	}
	if event.UserID != "" {
		userID := event.UserID
		entry.UserID = &userID
	}
	if event.Role != "" {
		entry.Metadata["role"] = event.Role
	}
	if len(event.RequiredRoles) > 0 {
		entry.Metadata["requiredRoles"] = event.RequiredRoles
	}
	if event.Field != "" {
		entry.Metadata["field"] = event.Field
	}
	if event.Supplied != "" {
		entry.Metadata["supplied"] = event.Supplied
	}
	if event.Permission != "" {
		entry.Metadata["permission"] = event.Permission
	}
	return entry
}

func eventFields(event tenancy.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("action", event.Action),
		zap.String("result", event.Result),
		zap.String("email", event.Email),
		zap.String("organization_id", event.OrganizationID),
		zap.String("role", event.Role),
		zap.String("path", event.Path),
	}
	if event.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", event.ResourceID))
	}
	if len(event.RequiredRoles) > 0 {
		fields = append(fields, zap.Strings("required_roles", event.RequiredRoles))
	}
	if event.Field != "" {
		fields = append(fields, zap.String("field", event.Field))
	}
	if event.Supplied != "" {
		fields = append(fields, zap.String("supplied", event.Supplied))
	}
	if event.Permission != "" {
		fields = append(fields, zap.String("permission", event.Permission))
	}
	return fields
}
