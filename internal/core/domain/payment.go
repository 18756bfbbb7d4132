package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentWorkerMismatch = errors.New("payment does not belong to this worker")
)

// PaymentMode is how a salary payment was disbursed.
type PaymentMode string

const (
	PaymentCash  PaymentMode = "CASH"
	PaymentUPI   PaymentMode = "UPI"
	PaymentBank  PaymentMode = "BANK"
	PaymentOther PaymentMode = "OTHER"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment is a salary disbursement against an assignment.
//
// Amount is the nominal salary; ActualPaidAmount is what remains after loan
// deductions have been taken out of it.
type Payment struct {
	ID               string
	AssignmentID     string
	UserID           string
	Amount           decimal.Decimal
	ActualPaidAmount decimal.Decimal
	PaymentDate      time.Time
	PaymentMode      PaymentMode
	Status           PaymentStatus
	Notes            string
	CreatedAt        time.Time
}

// ApplyDefaults fills ActualPaidAmount from Amount when it was left unset.
// A zero value counts as unset.
func (p *Payment) ApplyDefaults() {
	if p.ActualPaidAmount.IsZero() {
		p.ActualPaidAmount = p.Amount
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
}

// ApplyDeduction recomputes the actual paid amount as Amount - d. It is not
// cumulative: a later deduction against the same payment replaces the effect
// of an earlier one.
func (p *Payment) ApplyDeduction(d decimal.Decimal) {
	p.ActualPaidAmount = p.Amount.Sub(d)
}

// PaymentDetail is a payment enriched with its worker's name.
type PaymentDetail struct {
	Payment
	WorkerID   string
	WorkerName string
}
