package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/notify"
)

// RecordContribution records the caller's payment for the group's current
// cycle. The cycle is never caller-supplied, so contributions cannot be
// backdated. A member may contribute at most once per cycle; duplicates
// are rejected, not summed.
//
// The amount must be positive but is not forced equal to the group's fixed
// amount: partial and over contributions stay visible to the funding check.
func (e *Engine) RecordContribution(ctx context.Context, groupID, userID string, amount decimal.Decimal) (*models.Contribution, error) {
	var recorded models.Contribution

	_, err := e.mutateGroup(ctx, "record_contribution", groupID, func(group *models.Group) ([]notify.Event, error) {
		if err := ensureMutable(group); err != nil {
			return nil, err
		}
		member := group.MemberByUserID(userID)
		if member == nil || member.Status != models.MemberActive {
			return nil, fmt.Errorf("user %s is not an active member of group %s: %w", userID, groupID, ErrUnauthorized)
		}
		if amount.Sign() <= 0 {
			return nil, fmt.Errorf("contribution amount must be positive: %w", ErrValidation)
		}
		if group.HasContribution(member.ID, group.CurrentCycle) {
			return nil, fmt.Errorf("member %s already contributed for cycle %d: %w", member.ID, group.CurrentCycle, ErrConflict)
		}

		recorded = models.NewContribution(member.ID, group.CurrentCycle, amount)
		group.Contributions = append(group.Contributions, recorded)

		slog.Info("Contribution recorded",
			"group_id", group.ID,
			"member_id", member.ID,
			"cycle", recorded.Cycle,
			"amount", amount.String(),
		)
		event := notify.NewEvent(notify.KindContributionRecorded, group.ID, userID, member.ID,
			fmt.Sprintf("Contribution of %s recorded for cycle %d of %s", amount.String(), recorded.Cycle, group.Name))
		return []notify.Event{event}, nil
	})
	if err != nil {
		return nil, err
	}
	return &recorded, nil
}

// CycleFundingTotal sums the contributions recorded for one cycle.
func (e *Engine) CycleFundingTotal(ctx context.Context, groupID string, cycle int) (decimal.Decimal, error) {
	group, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return group.FundingTotal(cycle), nil
}

// IsCycleFullyFunded reports whether the cycle has collected at least the
// fixed amount per active member. Exact equality is not required:
// over-contribution is tolerated, under-contribution blocks payout.
func (e *Engine) IsCycleFullyFunded(ctx context.Context, groupID string, cycle int) (bool, error) {
	group, err := e.loadGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	return group.FullyFunded(cycle), nil
}
