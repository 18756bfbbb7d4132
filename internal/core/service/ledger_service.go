package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
	"github.com/homestaff/staff-ledger/internal/pkg/metrics"
)

// LedgerService is the only writer of worker loan balances. Every balance
// change is paired with an append-only adjustment entry.
type LedgerService struct {
	adjustments ports.AdjustmentRepository
	workers     ports.WorkerRepository
	payments    ports.PaymentRepository
	assignments ports.AssignmentRepository
	tx          ports.Transactor
	policy      ownershipPolicy
	logger      zerolog.Logger
	now         func() time.Time
}

func NewLedgerService(
	adjustments ports.AdjustmentRepository,
	workers ports.WorkerRepository,
	payments ports.PaymentRepository,
	assignments ports.AssignmentRepository,
	tx ports.Transactor,
	logger zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		adjustments: adjustments,
		workers:     workers,
		payments:    payments,
		assignments: assignments,
		tx:          tx,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Record writes a grant or deduction, moves the worker's balance and, for a
// deduction linked to a payment, sets that payment's actual paid amount to
// amount minus the deduction. All three writes commit together or not at all.
func (s *LedgerService) Record(ctx context.Context, in ports.AdjustmentInput) (*ports.AdjustmentResult, error) {
	entry, err := newEntry(in)
	if err != nil {
		metrics.LoanAdjustmentErrorsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	entry.ID = uuid.NewString()
	entry.CreatedBy = in.UserID
	entry.CreatedAt = s.now()

	var result *ports.AdjustmentResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		worker, err := s.workers.FindByID(ctx, entry.WorkerID)
		if err != nil {
			return err
		}

		var payment *domain.Payment
		if entry.PaymentID != "" {
			payment, err = s.deductFromPayment(ctx, in.UserID, worker.ID, entry)
			if err != nil {
				return err
			}
		}

		balance := entry.ApplyToBalance(worker.LoanBalance)
		if err := s.workers.UpdateLoanBalance(ctx, worker.ID, worker.Version, balance); err != nil {
			return err
		}
		if err := s.adjustments.Create(ctx, entry); err != nil {
			return fmt.Errorf("insert adjustment: %w", err)
		}

		result = &ports.AdjustmentResult{
			Adjustment:  &domain.LoanAdjustmentDetail{LoanAdjustment: *entry, WorkerName: worker.FullName},
			LoanBalance: balance,
			Payment:     payment,
		}
		return nil
	})
	if err != nil {
		metrics.LoanAdjustmentErrorsTotal.WithLabelValues(failureReason(err)).Inc()
		s.logger.Warn().Err(err).
			Str("worker_id", in.WorkerID).
			Str("kind", string(in.Kind)).
			Msg("loan adjustment rejected")
		return nil, err
	}

	metrics.LoanAdjustmentsTotal.WithLabelValues(string(entry.Kind)).Inc()
	s.logger.Info().
		Str("adjustment_id", entry.ID).
		Str("worker_id", entry.WorkerID).
		Str("kind", string(entry.Kind)).
		Str("amount", entry.Amount.StringFixed(2)).
		Str("balance", result.LoanBalance.StringFixed(2)).
		Msg("loan adjustment recorded")

	return result, nil
}

func (s *LedgerService) deductFromPayment(ctx context.Context, userID, workerID string, entry *domain.LoanAdjustment) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, entry.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.payment(userID, payment); err != nil {
		return nil, err
	}

	asg, err := s.assignments.FindByID(ctx, payment.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("load payment assignment: %w", err)
	}
	if asg.WorkerID != workerID {
		return nil, domain.ErrPaymentWorkerMismatch
	}

	prior, err := s.adjustments.CountDeductionsByPayment(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("count payment deductions: %w", err)
	}
	if prior > 0 {
		metrics.PaymentDeductionOverwritesTotal.Inc()
		s.logger.Warn().
			Str("payment_id", payment.ID).
			Int64("earlier_deductions", prior).
			Str("previous_actual_paid", payment.ActualPaidAmount.StringFixed(2)).
			Msg("deduction overwrites an earlier deduction on this payment")
	}

	payment.ApplyDeduction(entry.Amount)
	if err := s.payments.SetActualPaidAmount(ctx, payment.ID, payment.ActualPaidAmount); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return payment, nil
}

// History lists a worker's ledger entries, newest first.
func (s *LedgerService) History(ctx context.Context, workerID string, page ports.Page) (*ports.PageResult[*domain.LoanAdjustmentDetail], error) {
	page = page.Normalize()

	worker, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	items, total, err := s.adjustments.ListByWorker(ctx, workerID, page)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	out := make([]*domain.LoanAdjustmentDetail, 0, len(items))
	for _, a := range items {
		out = append(out, &domain.LoanAdjustmentDetail{LoanAdjustment: *a, WorkerName: worker.FullName})
	}
	return ports.NewPageResult(out, total, page), nil
}

func newEntry(in ports.AdjustmentInput) (*domain.LoanAdjustment, error) {
	switch in.Kind {
	case domain.AdjustmentGrant:
		if in.PaymentID != "" {
			return nil, fmt.Errorf("%w: a loan grant cannot reference a payment", domain.ErrInvalidAdjustment)
		}
		return domain.NewGrant(in.WorkerID, in.Amount, in.Notes)
	case domain.AdjustmentDeduction:
		return domain.NewDeduction(in.WorkerID, in.PaymentID, in.Amount, in.Notes)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidAdjustment, in.Kind)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return "conflict"
	case errors.Is(err, domain.ErrWorkerNotFound), errors.Is(err, domain.ErrPaymentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPaymentWorkerMismatch):
		return "invalid"
	default:
		return "internal"
	}
}
