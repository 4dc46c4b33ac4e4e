package models

import "github.com/shopspring/decimal"

// PayoutEntry is the scheduled pooled payout for one slot. An entry is
// created when its slot is claimed and mutated only by the mark-paid
// operation.
type PayoutEntry struct {
	// MemberID is the slot holder (membership ID).
	MemberID string

	// Slot is the holder's position in the payout order.
	Slot int

	// CycleDue is the cycle in which this payout is due. Always equal to
	// Slot: the slot order is the payout order.
	CycleDue int

	// Amount is the full pool the holder receives, fixed at admission time
	// (fixedAmount x totalCycles). It is never recomputed from actual
	// contributions; funding shortfall or surplus is a bookkeeping signal,
	// not a payout adjustment.
	Amount decimal.Decimal

	// Paid reports whether the payout has been marked paid.
	Paid bool

	// PaidAt is the Unix timestamp of the mark-paid operation, 0 if unpaid.
	PaidAt int64
}

// NewPayoutEntry builds an unpaid schedule entry for a claimed slot.
func NewPayoutEntry(memberID string, slot int, amount decimal.Decimal) PayoutEntry {
	return PayoutEntry{
		MemberID: memberID,
		Slot:     slot,
		CycleDue: slot,
		Amount:   amount,
	}
}
