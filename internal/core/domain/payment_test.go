package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPayment_ApplyDefaults(t *testing.T) {
	p := &Payment{Amount: decimal.NewFromInt(10000)}
	p.ApplyDefaults()

	if !p.ActualPaidAmount.Equal(p.Amount) {
		t.Fatalf("expected actual paid %s, got %s", p.Amount, p.ActualPaidAmount)
	}
	if p.Status != PaymentPending {
		t.Fatalf("expected PENDING, got %s", p.Status)
	}

	p = &Payment{Amount: decimal.NewFromInt(10000), ActualPaidAmount: decimal.NewFromInt(9000), Status: PaymentCompleted}
	p.ApplyDefaults()
	if !p.ActualPaidAmount.Equal(decimal.NewFromInt(9000)) || p.Status != PaymentCompleted {
		t.Fatalf("explicit values overwritten: %+v", p)
	}
}

func TestPayment_ApplyDeduction(t *testing.T) {
	p := &Payment{Amount: decimal.NewFromInt(5000), ActualPaidAmount: decimal.NewFromInt(5000)}

	p.ApplyDeduction(decimal.NewFromInt(1200))
	if !p.ActualPaidAmount.Equal(decimal.NewFromInt(3800)) {
		t.Fatalf("expected 3800, got %s", p.ActualPaidAmount)
	}

	// A second deduction is measured from the nominal amount again.
	p.ApplyDeduction(decimal.NewFromInt(1000))
	if !p.ActualPaidAmount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("expected 4000, got %s", p.ActualPaidAmount)
	}

	p.ApplyDeduction(decimal.NewFromInt(3000))
	if !p.ActualPaidAmount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected 2000, got %s", p.ActualPaidAmount)
	}
	if !p.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("nominal amount changed to %s", p.Amount)
	}
}
