package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contribution is one member's reported payment into the pool for a
// specific cycle. At most one contribution may exist per (member, cycle);
// a duplicate is rejected, never summed. Contributions are immutable once
// recorded.
//
// The engine only records that a payment was reported; it does not settle
// or verify a money transfer.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// MemberID is the contributing member (membership ID, not user ID).
	MemberID string

	// Cycle is the group cycle the payment funds. Always the group's
	// current cycle at recording time; callers cannot backdate.
	Cycle int

	// Amount is the reported payment. Positive, but not forced equal to
	// the group's fixed amount, so partial and over payments stay visible
	// to the funding check.
	Amount decimal.Decimal

	// RecordedAt is the Unix timestamp when the contribution was recorded.
	RecordedAt int64
}

// NewContribution builds a contribution for the given member and cycle.
func NewContribution(memberID string, cycle int, amount decimal.Decimal) Contribution {
	return Contribution{
		ID:         uuid.New().String(),
		MemberID:   memberID,
		Cycle:      cycle,
		Amount:     amount,
		RecordedAt: time.Now().Unix(),
	}
}
