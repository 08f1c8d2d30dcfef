// Package events publishes volunteer lifecycle events to Kafka.
//
// Publishing is best-effort: lifecycle operations never fail because the
// broker is unavailable. Consumers that need a complete record should read
// the status history ledger instead.
package events

import (
	"context"
	"time"

	id "mobiliza/pkg/domain"
)

// Event types emitted on the lifecycle topic.
const (
	TypeVolunteerCreated = "volunteer.created"
	TypeStatusChanged    = "volunteer.status_changed"
	TypeEditApplied      = "volunteer.edit_applied"
)

// LifecycleEvent is the payload published for every lifecycle transition.
type LifecycleEvent struct {
	Type        string         `json:"type"`
	VolunteerID id.VolunteerID `json:"volunteer_id"`
	Status      string         `json:"status,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event LifecycleEvent)
	Close()
}

// NopPublisher discards all events. Used when Kafka is not configured and in
// tests that do not assert on events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LifecycleEvent) {}
func (NopPublisher) Close()                                  {}
