package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/esusu/internal/metrics"
	"github.com/mmynk/esusu/internal/models"
)

// minCycles is the smallest useful group: a rotation needs at least two
// members taking turns.
const minCycles = 2

// CreateGroup initializes a group in Forming state with the admin as its
// sole member at adminSlot. The payout schedule holds one entry for the
// admin's slot; other slots materialize as members claim them.
func (e *Engine) CreateGroup(ctx context.Context, adminID, name string, fixedAmount decimal.Decimal, totalCycles, adminSlot int) (*models.Group, error) {
	if fixedAmount.Sign() <= 0 {
		return nil, fmt.Errorf("fixed amount must be positive: %w", ErrValidation)
	}
	if totalCycles < minCycles {
		return nil, fmt.Errorf("total cycles must be at least %d: %w", minCycles, ErrValidation)
	}
	if adminSlot < 1 || adminSlot > totalCycles {
		return nil, fmt.Errorf("slot %d outside [1, %d]: %w", adminSlot, totalCycles, ErrValidation)
	}

	group := models.NewGroup(adminID, name, fixedAmount, totalCycles, adminSlot)
	if err := e.store.CreateGroup(ctx, group); err != nil {
		metrics.EngineOps.WithLabelValues("create_group", "error").Inc()
		return nil, err
	}

	metrics.EngineOps.WithLabelValues("create_group", "ok").Inc()
	slog.Info("Group created",
		"group_id", group.ID,
		"admin_id", adminID,
		"total_cycles", totalCycles,
		"fixed_amount", fixedAmount.String(),
	)
	return group, nil
}

// GetGroup loads a group for a caller who must be its admin or a member.
func (e *Engine) GetGroup(ctx context.Context, groupID, callerID string) (*models.Group, error) {
	group, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != callerID && group.MemberByUserID(callerID) == nil {
		return nil, fmt.Errorf("user %s is not a member of group %s: %w", callerID, groupID, ErrUnauthorized)
	}
	return group, nil
}

// ListGroupsForUser returns every group the user belongs to (unordered).
func (e *Engine) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return e.store.ListGroupsByUser(ctx, userID)
}

func (e *Engine) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(groupID, err)
	}
	return group, nil
}
