package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/notify"
)

// MarkPayoutPaid records that the current cycle's payout went to the given
// member, then advances the cycle, or completes the group when the last
// slot is paid. Admin only.
//
// Payout requires full funding: the cycle must have collected at least the
// fixed amount per active member. The payout amount itself was fixed at
// admission and is never recomputed from actual contributions; shortfall or
// surplus is a bookkeeping signal, not a payout adjustment.
func (e *Engine) MarkPayoutPaid(ctx context.Context, groupID, callerID, memberID string) (*models.Group, error) {
	return e.mutateGroup(ctx, "mark_payout_paid", groupID, func(group *models.Group) ([]notify.Event, error) {
		if err := requireAdmin(group, callerID); err != nil {
			return nil, err
		}
		if err := ensureMutable(group); err != nil {
			return nil, err
		}
		// Only an active rotation pays out; a forming group has unclaimed
		// slots and no complete schedule yet.
		if group.Status != models.GroupActive {
			return nil, fmt.Errorf("group %s is not active: %w", group.ID, ErrInvariant)
		}

		entry := group.PayoutForCycle(group.CurrentCycle)
		if entry == nil || entry.MemberID != memberID {
			return nil, fmt.Errorf("no payout due for member %s at cycle %d: %w", memberID, group.CurrentCycle, ErrNotFound)
		}
		if entry.Paid {
			return nil, fmt.Errorf("payout for cycle %d already paid: %w", group.CurrentCycle, ErrConflict)
		}
		if !group.FullyFunded(group.CurrentCycle) {
			return nil, fmt.Errorf("cycle %d funded %s of required %s: %w",
				group.CurrentCycle,
				group.FundingTotal(group.CurrentCycle).String(),
				group.RequiredFunding().String(),
				ErrInvariant)
		}

		entry.Paid = true
		entry.PaidAt = time.Now().Unix()

		if group.CurrentCycle == group.TotalCycles {
			group.Status = models.GroupCompleted
			slog.Info("Group completed", "group_id", group.ID)
		} else {
			group.CurrentCycle++
		}

		slog.Info("Payout marked paid",
			"group_id", group.ID,
			"member_id", memberID,
			"cycle", entry.CycleDue,
			"amount", entry.Amount.String(),
			"status", group.Status,
		)
		event := notify.NewEvent(notify.KindPayoutCompleted, group.ID, callerID, memberID,
			fmt.Sprintf("Payout of %s for cycle %d of %s marked paid", entry.Amount.String(), entry.CycleDue, group.Name))
		return []notify.Event{event}, nil
	})
}
