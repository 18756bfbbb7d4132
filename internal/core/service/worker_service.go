package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

type WorkerService struct {
	repo        ports.WorkerRepository
	assignments ports.AssignmentRepository
	adjustments ports.AdjustmentRepository
	tx          ports.Transactor
	logger      zerolog.Logger
}

func NewWorkerService(
	repo ports.WorkerRepository,
	assignments ports.AssignmentRepository,
	adjustments ports.AdjustmentRepository,
	tx ports.Transactor,
	logger zerolog.Logger,
) *WorkerService {
	return &WorkerService{
		repo:        repo,
		assignments: assignments,
		adjustments: adjustments,
		tx:          tx,
		logger:      logger,
	}
}

// List returns a page of workers. Workers are visible to every caller.
func (s *WorkerService) List(ctx context.Context, filter ports.WorkerFilter) (*ports.PageResult[*domain.Worker], error) {
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return ports.NewPageResult(items, total, filter.Page), nil
}

// Create registers a worker with a zero loan balance.
func (s *WorkerService) Create(ctx context.Context, in ports.WorkerInput) (*domain.Worker, error) {
	now := time.Now().UTC()
	w := &domain.Worker{
		ID:               uuid.NewString(),
		FullName:         strings.TrimSpace(in.FullName),
		PhoneNumber:      in.PhoneNumber,
		EmergencyContact: in.EmergencyContact,
		IDType:           in.IDType,
		IDNumber:         in.IDNumber,
		Address:          in.Address,
		DOB:              in.DOB,
		City:             in.City,
		State:            in.State,
		Gender:           in.Gender,
		ProfilePhoto:     in.ProfilePhoto,
		IsVerified:       in.IsVerified,
		LoanBalance:      decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, w); err != nil {
		s.logger.Error().Err(err).Msg("failed to create worker")
		return nil, fmt.Errorf("create worker: %w", err)
	}

	s.logger.Info().Str("worker_id", w.ID).Msg("worker created")
	return w, nil
}

func (s *WorkerService) Get(ctx context.Context, id string) (*domain.Worker, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial profile update. The loan balance is not editable
// here; it only moves through the ledger.
func (s *WorkerService) Update(ctx context.Context, id string, in ports.WorkerUpdate) (*domain.Worker, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&w.FullName, in.FullName)
	setString(&w.PhoneNumber, in.PhoneNumber)
	setString(&w.EmergencyContact, in.EmergencyContact)
	setString(&w.IDType, in.IDType)
	setString(&w.IDNumber, in.IDNumber)
	setString(&w.Address, in.Address)
	setString(&w.City, in.City)
	setString(&w.State, in.State)
	setString(&w.ProfilePhoto, in.ProfilePhoto)
	if in.DOB != nil {
		dob := domain.TruncateDay(*in.DOB)
		w.DOB = &dob
	}
	if in.Gender != nil {
		w.Gender = *in.Gender
	}
	if in.IsVerified != nil {
		w.IsVerified = *in.IsVerified
	}
	w.FullName = strings.TrimSpace(w.FullName)
	w.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update worker: %w", err)
	}
	return w, nil
}

// Delete removes a worker that no assignment or ledger entry refers to.
// Every writer of such a reference also writes the worker document in its own
// transaction, so the count and the delete below cannot miss a concurrent one.
func (s *WorkerService) Delete(ctx context.Context, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}

		n, err := s.assignments.CountByWorker(ctx, id)
		if err != nil {
			return fmt.Errorf("delete worker: count assignments: %w", err)
		}
		if n > 0 {
			return domain.ErrWorkerInUse
		}

		n, err = s.adjustments.CountByWorker(ctx, id)
		if err != nil {
			return fmt.Errorf("delete worker: count adjustments: %w", err)
		}
		if n > 0 {
			return domain.ErrWorkerInUse
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete worker: %w", err)
		}
		s.logger.Info().Str("worker_id", id).Msg("worker deleted")
		return nil
	})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
