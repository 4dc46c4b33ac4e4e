// Package notify carries domain events from the group engine to an
// out-of-band delivery channel.
//
// Dispatch is fire-and-forget: the engine hands events over after the
// owning write has committed, logs delivery failures, and never surfaces
// them to the caller. Implementations must return promptly (queue
// internally if delivery is slow) so they cannot block engine callers.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/esusu/internal/metrics"
)

// Kind identifies the type of a domain event.
type Kind string

const (
	// KindMemberJoined fires when a member claims a slot.
	KindMemberJoined Kind = "member_joined"
	// KindContributionRecorded fires when a contribution is recorded.
	KindContributionRecorded Kind = "contribution_recorded"
	// KindPayoutCompleted fires when a payout is marked paid.
	KindPayoutCompleted Kind = "payout_completed"
)

// Event is one domain event emitted by a successful engine operation.
type Event struct {
	// Kind is the event type.
	Kind Kind

	// GroupID is the group the event belongs to.
	GroupID string

	// ActorID is the user who performed the operation.
	ActorID string

	// MemberID is the affected membership, if any.
	MemberID string

	// At is when the event occurred.
	At time.Time

	// Message is a human-readable summary for delivery.
	Message string
}

// NewEvent builds an event stamped with the current time.
func NewEvent(kind Kind, groupID, actorID, memberID, message string) Event {
	return Event{
		Kind:     kind,
		GroupID:  groupID,
		ActorID:  actorID,
		MemberID: memberID,
		At:       time.Now(),
		Message:  message,
	}
}

// Dispatcher delivers domain events out of band.
type Dispatcher interface {
	// Dispatch hands one event to the delivery channel.
	Dispatch(ctx context.Context, event Event) error
}

// LogDispatcher is the default dispatcher: it records events to the
// structured log. A real deployment swaps in a push/email/webhook
// implementation behind the same interface.
type LogDispatcher struct{}

// NewLogDispatcher creates a log-backed dispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

// Dispatch logs the event.
func (d *LogDispatcher) Dispatch(ctx context.Context, event Event) error {
	slog.Info("Event dispatched",
		"kind", event.Kind,
		"group_id", event.GroupID,
		"actor_id", event.ActorID,
		"member_id", event.MemberID,
		"message", event.Message,
	)
	metrics.EventsDispatched.WithLabelValues(string(event.Kind)).Inc()
	return nil
}
