package model

import "time"

// MemberPointBalance is the per-member derived aggregate. It is a read
// cache, not the source of truth: deltas arrive asynchronously and possibly
// out of order, so AvailableBalance is a raw signed integer that may
// transiently go negative or drift. Reconciliation corrects it by
// assignment; updates are never rejected.
type MemberPointBalance struct {
	MemberID         int64
	AvailableBalance int64
	TotalAccumulated int64
	TotalUsed        int64
	TotalExpired     int64
	Version          int64
	UpdatedAt        time.Time
}

// NewMemberPointBalance creates an empty cache row for a member.
func NewMemberPointBalance(memberID int64) *MemberPointBalance {
	return &MemberPointBalance{MemberID: memberID}
}

// Apply mutates the aggregate for one ledger change. Restoration increases
// the available balance but leaves TotalUsed alone; history is preserved,
// not reversed.
func (b *MemberPointBalance) Apply(kind EventKind, amount Money, now time.Time) {
	v := amount.Int64()
	switch kind {
	case EventAccumulated:
		b.AvailableBalance += v
		b.TotalAccumulated += v
	case EventAccumulationCancelled:
		b.AvailableBalance -= v
	case EventUsed:
		b.AvailableBalance -= v
		b.TotalUsed += v
	case EventUsageCancelled:
		b.AvailableBalance += v
	case EventExpired:
		b.AvailableBalance -= v
		b.TotalExpired += v
	}
	b.Version++
	b.UpdatedAt = now
}
