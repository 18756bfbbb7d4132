package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidAdjustment = errors.New("invalid loan adjustment")

// AdjustmentKind discriminates the two kinds of loan ledger entry.
type AdjustmentKind string

const (
	// AdjustmentGrant is a loan handed to the worker.
	AdjustmentGrant AdjustmentKind = "GRANT"
	// AdjustmentDeduction is a repayment taken out of the worker's salary.
	AdjustmentDeduction AdjustmentKind = "DEDUCTION"
)

// LoanAdjustment is an immutable entry in a worker's loan ledger.
// PaymentID is only ever set on deductions.
type LoanAdjustment struct {
	ID        string
	WorkerID  string
	PaymentID string
	Kind      AdjustmentKind
	Amount    decimal.Decimal
	Notes     string
	CreatedBy string
	CreatedAt time.Time
}

// NewGrant builds a ledger entry for a loan of amount given to a worker.
func NewGrant(workerID string, amount decimal.Decimal, notes string) (*LoanAdjustment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be greater than 0", ErrInvalidAdjustment)
	}
	return &LoanAdjustment{
		WorkerID: workerID,
		Kind:     AdjustmentGrant,
		Amount:   amount,
		Notes:    notes,
	}, nil
}

// NewDeduction builds a ledger entry for amount recovered from a worker's
// salary, optionally tied to the payment it was withheld from.
func NewDeduction(workerID, paymentID string, amount decimal.Decimal, notes string) (*LoanAdjustment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deduction amount must be greater than 0", ErrInvalidAdjustment)
	}
	return &LoanAdjustment{
		WorkerID:  workerID,
		PaymentID: paymentID,
		Kind:      AdjustmentDeduction,
		Amount:    amount,
		Notes:     notes,
	}, nil
}

// LoanAmount is the granted amount, zero for deductions.
func (a *LoanAdjustment) LoanAmount() decimal.Decimal {
	if a.Kind == AdjustmentGrant {
		return a.Amount
	}
	return decimal.Zero
}

// DeductionAmount is the deducted amount, zero for grants.
func (a *LoanAdjustment) DeductionAmount() decimal.Decimal {
	if a.Kind == AdjustmentDeduction {
		return a.Amount
	}
	return decimal.Zero
}

// ApplyToBalance returns the loan balance after this entry. The result is
// never negative: over-deduction clears the balance.
func (a *LoanAdjustment) ApplyToBalance(balance decimal.Decimal) decimal.Decimal {
	switch a.Kind {
	case AdjustmentGrant:
		return balance.Add(a.Amount)
	case AdjustmentDeduction:
		return decimal.Max(decimal.Zero, balance.Sub(a.Amount))
	default:
		return balance
	}
}

// LoanAdjustmentDetail is a ledger entry enriched with the worker's name.
type LoanAdjustmentDetail struct {
	LoanAdjustment
	WorkerName string
}
