package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
	"github.com/homestaff/staff-ledger/internal/pkg/metrics"
)

type PaymentService struct {
	repo        ports.PaymentRepository
	assignments ports.AssignmentRepository
	workers     ports.WorkerRepository
	policy      ownershipPolicy
	logger      zerolog.Logger
}

func NewPaymentService(
	repo ports.PaymentRepository,
	assignments ports.AssignmentRepository,
	workers ports.WorkerRepository,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		repo:        repo,
		assignments: assignments,
		workers:     workers,
		logger:      logger,
	}
}

func (s *PaymentService) List(ctx context.Context, userID string, filter ports.PaymentFilter) (*ports.PageResult[*domain.PaymentDetail], error) {
	filter.UserID = userID
	filter.Page = filter.Page.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	details, err := s.enrich(ctx, items)
	if err != nil {
		return nil, err
	}
	return ports.NewPageResult(details, total, filter.Page), nil
}

// Create records a salary payment on one of the caller's assignments. When
// no actual paid amount is given it equals the nominal amount.
func (s *PaymentService) Create(ctx context.Context, userID string, in ports.PaymentInput) (*domain.PaymentDetail, error) {
	if _, err := resolveAssignment(ctx, s.assignments, s.policy, userID, in.AssignmentID); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}

	p := &domain.Payment{
		ID:           uuid.NewString(),
		AssignmentID: in.AssignmentID,
		UserID:       userID,
		Amount:       in.Amount,
		PaymentDate:  domain.TruncateDay(in.PaymentDate),
		PaymentMode:  in.PaymentMode,
		Status:       in.Status,
		Notes:        in.Notes,
		CreatedAt:    time.Now().UTC(),
	}
	if in.ActualPaidAmount != nil {
		p.ActualPaidAmount = *in.ActualPaidAmount
	}
	if p.ActualPaidAmount.IsNegative() {
		return nil, fmt.Errorf("%w: actual_paid_amount must not be negative", domain.ErrInvalidInput)
	}
	p.ApplyDefaults()

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("assignment_id", p.AssignmentID).Msg("failed to create payment")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	metrics.PaymentsCreatedTotal.WithLabelValues(string(p.PaymentMode)).Inc()
	s.logger.Info().
		Str("payment_id", p.ID).
		Str("assignment_id", p.AssignmentID).
		Str("amount", p.Amount.StringFixed(2)).
		Msg("payment created")

	return s.detail(ctx, p)
}

func (s *PaymentService) Get(ctx context.Context, userID, id string) (*domain.PaymentDetail, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

// Update edits the descriptive fields of a payment. Amounts only change
// through loan deductions.
func (s *PaymentService) Update(ctx context.Context, userID, id string, in ports.PaymentUpdate) (*domain.PaymentDetail, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.PaymentDate != nil {
		p.PaymentDate = domain.TruncateDay(*in.PaymentDate)
	}
	if in.PaymentMode != nil {
		p.PaymentMode = *in.PaymentMode
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	setString(&p.Notes, in.Notes)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return s.detail(ctx, p)
}

func (s *PaymentService) owned(ctx context.Context, userID, id string) (*domain.Payment, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.payment(userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) detail(ctx context.Context, p *domain.Payment) (*domain.PaymentDetail, error) {
	details, err := s.enrich(ctx, []*domain.Payment{p})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *PaymentService) enrich(ctx context.Context, items []*domain.Payment) ([]*domain.PaymentDetail, error) {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.AssignmentID)
	}
	assignments, workers, err := loadAssignmentWorkers(ctx, s.assignments, s.workers, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.PaymentDetail, 0, len(items))
	for _, p := range items {
		d := &domain.PaymentDetail{Payment: *p}
		if asg, ok := assignments[p.AssignmentID]; ok {
			d.WorkerID = asg.WorkerID
			if w, ok := workers[asg.WorkerID]; ok {
				d.WorkerName = w.FullName
			}
		}
		out = append(out, d)
	}
	return out, nil
}
