package service

import "github.com/homestaff/staff-ledger/internal/core/domain"

// ownershipPolicy decides whether a caller may act on records hung off an
// assignment. Records owned by someone else are reported with the record's
// not-found error so their existence is not revealed.
type ownershipPolicy struct{}

func (ownershipPolicy) assignment(userID string, a *domain.Assignment) error {
	if a == nil || a.UserID != userID {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (ownershipPolicy) attendance(userID string, a *domain.Attendance) error {
	if a == nil || a.UserID != userID {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (ownershipPolicy) payment(userID string, p *domain.Payment) error {
	if p == nil || p.UserID != userID {
		return domain.ErrPaymentNotFound
	}
	return nil
}
