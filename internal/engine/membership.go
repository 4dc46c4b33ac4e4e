package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/notify"
)

// JoinGroup admits a user into the group at the requested slot and creates
// the matching payout entry. When the last slot is claimed the group
// transitions Forming -> Active.
//
// This is the concurrency-sensitive hot path: two simultaneous joins for
// one slot both pass the in-memory check against the version they loaded,
// but only one save wins the compare-and-swap; the loser reloads, sees the
// slot taken, and gets a conflict.
func (e *Engine) JoinGroup(ctx context.Context, groupID, userID string, requestedSlot int) (*models.Group, error) {
	return e.mutateGroup(ctx, "join_group", groupID, func(group *models.Group) ([]notify.Event, error) {
		if err := ensureMutable(group); err != nil {
			return nil, err
		}
		if requestedSlot < 1 || requestedSlot > group.TotalCycles {
			return nil, fmt.Errorf("slot %d outside [1, %d]: %w", requestedSlot, group.TotalCycles, ErrValidation)
		}
		// Any prior membership conflicts, including a departed one:
		// membership is as permanent as the slot it claimed, so there is
		// never more than one member record per user.
		if m := group.MemberByUserID(userID); m != nil {
			return nil, fmt.Errorf("user %s already holds a membership: %w", userID, ErrConflict)
		}
		if group.SlotTaken(requestedSlot) {
			return nil, fmt.Errorf("slot %d is already taken: %w", requestedSlot, ErrConflict)
		}

		member := models.NewMember(userID, requestedSlot)
		group.Members = append(group.Members, member)
		group.Payouts = append(group.Payouts, models.NewPayoutEntry(member.ID, requestedSlot, group.PayoutAmount()))

		if len(group.ActiveMembers()) == group.TotalCycles {
			group.Status = models.GroupActive
			slog.Info("Group fully subscribed, now active", "group_id", group.ID)
		}

		slog.Info("Member joined",
			"group_id", group.ID,
			"user_id", userID,
			"slot", requestedSlot,
			"status", group.Status,
		)
		event := notify.NewEvent(notify.KindMemberJoined, group.ID, userID, member.ID,
			fmt.Sprintf("A member joined %s at slot %d", group.Name, requestedSlot))
		return []notify.Event{event}, nil
	})
}

// LeaveGroup marks the caller's membership Left. The vacated slot and its
// payout entry stay bound to the departed member forever; payout order is
// fixed at admission and a departed member cannot rejoin. The admin owns
// the group and cannot leave it.
func (e *Engine) LeaveGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	return e.mutateGroup(ctx, "leave_group", groupID, func(group *models.Group) ([]notify.Event, error) {
		if err := ensureMutable(group); err != nil {
			return nil, err
		}
		if group.AdminID == userID {
			return nil, fmt.Errorf("admin cannot leave their own group: %w", ErrInvariant)
		}
		member := group.MemberByUserID(userID)
		if member == nil {
			return nil, fmt.Errorf("user %s is not a member of group %s: %w", userID, groupID, ErrNotFound)
		}
		if member.Status == models.MemberLeft {
			return nil, fmt.Errorf("member already left: %w", ErrConflict)
		}

		member.Status = models.MemberLeft
		slog.Info("Member left", "group_id", group.ID, "user_id", userID, "slot", member.Slot)
		return nil, nil
	})
}
