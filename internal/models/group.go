package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	// GroupForming means slots are still being claimed by new members.
	GroupForming GroupStatus = "forming"
	// GroupActive means all slots are taken and payout rounds are running.
	GroupActive GroupStatus = "active"
	// GroupCompleted means the last slot's payout has been marked paid.
	// Completed groups reject all further mutation.
	GroupCompleted GroupStatus = "completed"
)

// Group represents one rotating savings circle.
//
// Each of TotalCycles members contributes FixedAmount every cycle, and the
// member holding slot N receives the full pool (FixedAmount x TotalCycles)
// in cycle N.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	// It doubles as the opaque invite reference shared with joiners.
	ID string

	// Name is the display name of the group.
	Name string

	// AdminID is the user ID of the group's admin (its creator).
	// Only the admin may mark payouts paid.
	AdminID string

	// FixedAmount is the contribution due per member per cycle.
	FixedAmount decimal.Decimal

	// TotalCycles is the number of slots, cycles, and expected members.
	TotalCycles int

	// CurrentCycle is the cycle currently accepting contributions (1-based).
	// It advances only when the current cycle's payout is marked paid.
	CurrentCycle int

	// Status is the group's lifecycle state.
	Status GroupStatus

	// Version is the optimistic-concurrency stamp. Every save compares and
	// increments it, so two racing writers cannot both win.
	Version int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// Members are the participants, ordered by slot.
	Members []Member

	// Contributions is the append-only record of reported payments.
	Contributions []Contribution

	// Payouts is the payout schedule, one entry per claimed slot.
	Payouts []PayoutEntry
}

// NewGroup builds a Forming group with the admin as its sole member at
// adminSlot. Parameter validation is the engine's responsibility.
func NewGroup(adminID, name string, fixedAmount decimal.Decimal, totalCycles, adminSlot int) *Group {
	g := &Group{
		ID:           uuid.New().String(),
		Name:         name,
		AdminID:      adminID,
		FixedAmount:  fixedAmount,
		TotalCycles:  totalCycles,
		CurrentCycle: 1,
		Status:       GroupForming,
		Version:      1,
		CreatedAt:    time.Now().Unix(),
	}
	member := NewMember(adminID, adminSlot)
	g.Members = append(g.Members, member)
	g.Payouts = append(g.Payouts, NewPayoutEntry(member.ID, adminSlot, g.PayoutAmount()))
	return g
}

// InviteReference returns the opaque join token for the group.
func (g *Group) InviteReference() string {
	return g.ID
}

// PayoutAmount is the full pool one slot holder receives.
func (g *Group) PayoutAmount() decimal.Decimal {
	return g.FixedAmount.Mul(decimal.NewFromInt(int64(g.TotalCycles)))
}

// ActiveMembers returns the members that have not left.
func (g *Group) ActiveMembers() []Member {
	var active []Member
	for _, m := range g.Members {
		if m.Status == MemberActive {
			active = append(active, m)
		}
	}
	return active
}

// MemberByUserID returns the member record for a user, or nil.
func (g *Group) MemberByUserID(userID string) *Member {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// MemberByID returns the member record by member ID, or nil.
func (g *Group) MemberByID(memberID string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == memberID {
			return &g.Members[i]
		}
	}
	return nil
}

// SlotTaken reports whether any member holds the slot. Slots bind at
// admission and never free up, even after the holder leaves.
func (g *Group) SlotTaken(slot int) bool {
	for _, m := range g.Members {
		if m.Slot == slot {
			return true
		}
	}
	return false
}

// HasContribution reports whether the member already contributed for cycle.
func (g *Group) HasContribution(memberID string, cycle int) bool {
	for _, c := range g.Contributions {
		if c.MemberID == memberID && c.Cycle == cycle {
			return true
		}
	}
	return false
}

// FundingTotal sums the contributions recorded for a cycle.
func (g *Group) FundingTotal(cycle int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range g.Contributions {
		if c.Cycle == cycle {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// RequiredFunding is the amount a cycle needs before its payout may be
// marked paid: FixedAmount per active member. Over-contribution is
// tolerated; under-contribution blocks the payout.
func (g *Group) RequiredFunding() decimal.Decimal {
	return g.FixedAmount.Mul(decimal.NewFromInt(int64(len(g.ActiveMembers()))))
}

// FullyFunded reports whether the cycle's funding meets the requirement.
func (g *Group) FullyFunded(cycle int) bool {
	return g.FundingTotal(cycle).GreaterThanOrEqual(g.RequiredFunding())
}

// PayoutForCycle returns the schedule entry due at the given cycle, or nil.
func (g *Group) PayoutForCycle(cycle int) *PayoutEntry {
	for i := range g.Payouts {
		if g.Payouts[i].CycleDue == cycle {
			return &g.Payouts[i]
		}
	}
	return nil
}

// UnpaidMembers returns the active members with no contribution recorded
// for the given cycle.
func (g *Group) UnpaidMembers(cycle int) []Member {
	var unpaid []Member
	for _, m := range g.ActiveMembers() {
		if !g.HasContribution(m.ID, cycle) {
			unpaid = append(unpaid, m)
		}
	}
	return unpaid
}
