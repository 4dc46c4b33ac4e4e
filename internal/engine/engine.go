// Package engine implements the rotating savings group core: group
// creation, slot-based membership, per-cycle contribution accounting, and
// authorization-gated payout progression.
//
// Every mutating operation is a short read-modify-write over one group
// aggregate, serialized per group by the store's version stamp: the engine
// loads the group, applies the transition in memory, and saves with
// compare-and-swap, retrying on version conflicts. Cross-group operations
// share nothing and run in parallel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/esusu/internal/metrics"
	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/notify"
	"github.com/mmynk/esusu/internal/storage"
)

// maxSaveAttempts bounds the compare-and-swap retry loop. Conflicts are
// short-lived (another writer to the same group), so a handful of reloads
// is enough; beyond that we surface a conflict rather than spin.
const maxSaveAttempts = 5

// Engine coordinates all group state transitions.
type Engine struct {
	store      storage.Store
	dispatcher notify.Dispatcher
}

// New creates an engine over the given store and event dispatcher.
// A nil dispatcher disables event delivery.
func New(store storage.Store, dispatcher notify.Dispatcher) *Engine {
	return &Engine{store: store, dispatcher: dispatcher}
}

// mutation applies a state transition to a loaded group and returns the
// events to dispatch once the save commits.
type mutation func(group *models.Group) ([]notify.Event, error)

// mutateGroup runs one optimistic read-modify-write cycle: load the group,
// apply fn, save with compare-and-swap. A version conflict means another
// writer landed first; reload and retry so slot uniqueness and cycle
// progression hold under any interleaving.
func (e *Engine) mutateGroup(ctx context.Context, operation, groupID string, fn mutation) (*models.Group, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		group, err := e.store.GetGroup(ctx, groupID)
		if errors.Is(err, storage.ErrNotFound) {
			metrics.EngineOps.WithLabelValues(operation, "error").Inc()
			return nil, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
		}
		if err != nil {
			metrics.EngineOps.WithLabelValues(operation, "error").Inc()
			return nil, err
		}

		events, err := fn(group)
		if err != nil {
			metrics.EngineOps.WithLabelValues(operation, "rejected").Inc()
			return nil, err
		}

		err = e.store.SaveGroup(ctx, group)
		if errors.Is(err, storage.ErrVersionConflict) {
			metrics.SaveRetries.WithLabelValues(operation).Inc()
			slog.Debug("Group save conflicted, retrying",
				"operation", operation, "group_id", groupID, "attempt", attempt)
			continue
		}
		if err != nil {
			metrics.EngineOps.WithLabelValues(operation, "error").Inc()
			return nil, err
		}

		metrics.EngineOps.WithLabelValues(operation, "ok").Inc()
		e.emit(events)
		return group, nil
	}

	metrics.EngineOps.WithLabelValues(operation, "error").Inc()
	return nil, fmt.Errorf("group %s: too many concurrent updates: %w", groupID, ErrConflict)
}

// emit hands events to the dispatcher outside the transactional boundary.
// Dispatch failures are logged and swallowed; they never reach the caller.
func (e *Engine) emit(events []notify.Event) {
	if e.dispatcher == nil {
		return
	}
	for _, event := range events {
		if err := e.dispatcher.Dispatch(context.Background(), event); err != nil {
			slog.Warn("Event dispatch failed",
				"kind", event.Kind,
				"group_id", event.GroupID,
				"error", err,
			)
		}
	}
}

// mapStoreErr converts storage lookup errors into the engine taxonomy.
func mapStoreErr(groupID string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	return err
}

// requireAdmin is the single authorization check for admin-only operations.
func requireAdmin(group *models.Group, callerID string) error {
	if group.AdminID != callerID {
		return fmt.Errorf("user %s is not the group admin: %w", callerID, ErrUnauthorized)
	}
	return nil
}

// ensureMutable rejects any mutation of a completed group.
func ensureMutable(group *models.Group) error {
	if group.Status == models.GroupCompleted {
		return fmt.Errorf("group %s is completed: %w", group.ID, ErrInvariant)
	}
	return nil
}
