package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus is the lifecycle state of a member.
type MemberStatus string

const (
	// MemberActive means the member participates in contributions and
	// counts toward the funding requirement.
	MemberActive MemberStatus = "active"
	// MemberLeft means the member departed. Their slot and payout entry
	// stay bound to them forever; the slot is never reassigned.
	MemberLeft MemberStatus = "left"
)

// Member is one participant in a group.
type Member struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// UserID is the account that holds this membership.
	UserID string

	// Slot is the member's fixed 1-based position in the payout order.
	// It is immutable once assigned and also names the cycle in which
	// this member receives the pooled payout.
	Slot int

	// Status is the member's lifecycle state.
	Status MemberStatus

	// JoinedAt is the Unix timestamp when the member was admitted.
	JoinedAt int64
}

// NewMember builds an active member holding the given slot.
func NewMember(userID string, slot int) Member {
	return Member{
		ID:       uuid.New().String(),
		UserID:   userID,
		Slot:     slot,
		Status:   MemberActive,
		JoinedAt: time.Now().Unix(),
	}
}
