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

type AttendanceService struct {
	repo        ports.AttendanceRepository
	assignments ports.AssignmentRepository
	workers     ports.WorkerRepository
	tx          ports.Transactor
	policy      ownershipPolicy
	logger      zerolog.Logger
}

func NewAttendanceService(
	repo ports.AttendanceRepository,
	assignments ports.AssignmentRepository,
	workers ports.WorkerRepository,
	tx ports.Transactor,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		repo:        repo,
		assignments: assignments,
		workers:     workers,
		tx:          tx,
		logger:      logger,
	}
}

func (s *AttendanceService) List(ctx context.Context, userID string, filter ports.AttendanceFilter) (*ports.PageResult[*domain.AttendanceDetail], error) {
	filter.UserID = userID
	filter.Page = filter.Page.Normalize()
	if filter.Date != nil {
		d := domain.TruncateDay(*filter.Date)
		filter.Date = &d
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	details, err := s.enrich(ctx, items)
	if err != nil {
		return nil, err
	}
	return ports.NewPageResult(details, total, filter.Page), nil
}

// Create records one day of attendance on one of the caller's assignments.
func (s *AttendanceService) Create(ctx context.Context, userID string, in ports.AttendanceInput) (*domain.AttendanceDetail, error) {
	a, err := s.build(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			return nil, err
		}
		return nil, fmt.Errorf("create attendance: %w", err)
	}

	metrics.AttendanceRecordedTotal.WithLabelValues(string(a.Status)).Inc()
	s.logger.Info().Str("attendance_id", a.ID).Str("assignment_id", a.AssignmentID).Msg("attendance recorded")

	details, err := s.enrich(ctx, []*domain.Attendance{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// BulkCreate validates every input before writing any of them, then inserts
// the batch in one transaction.
func (s *AttendanceService) BulkCreate(ctx context.Context, userID string, in []ports.AttendanceInput) ([]*domain.AttendanceDetail, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one attendance record is required", domain.ErrInvalidInput)
	}

	records := make([]*domain.Attendance, 0, len(in))
	seen := make(map[string]int, len(in))
	for i, item := range in {
		a, err := s.build(ctx, userID, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if j, dup := seen[a.UniqueKey()]; dup {
			return nil, fmt.Errorf("item %d repeats item %d: %w", i, j, domain.ErrDuplicateAttendance)
		}
		seen[a.UniqueKey()] = i
		records = append(records, a)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateMany(ctx, records)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendance) {
			return nil, err
		}
		return nil, fmt.Errorf("bulk create attendance: %w", err)
	}

	for _, a := range records {
		metrics.AttendanceRecordedTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.logger.Info().Int("count", len(records)).Str("user_id", userID).Msg("attendance batch recorded")

	return s.enrich(ctx, records)
}

func (s *AttendanceService) Get(ctx context.Context, userID, id string) (*domain.AttendanceDetail, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	details, err := s.enrich(ctx, []*domain.Attendance{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *AttendanceService) Update(ctx context.Context, userID, id string, in ports.AttendanceUpdate) (*domain.AttendanceDetail, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	setString(&a.CheckIn, in.CheckIn)
	setString(&a.CheckOut, in.CheckOut)
	setString(&a.Notes, in.Notes)
	if in.Status != nil {
		a.Status = *in.Status
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update attendance: %w", err)
	}
	details, err := s.enrich(ctx, []*domain.Attendance{a})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *AttendanceService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

// build checks the referenced assignment belongs to userID and returns the
// record to insert.
func (s *AttendanceService) build(ctx context.Context, userID string, in ports.AttendanceInput) (*domain.Attendance, error) {
	if _, err := resolveAssignment(ctx, s.assignments, s.policy, userID, in.AssignmentID); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	a := &domain.Attendance{
		ID:           uuid.NewString(),
		AssignmentID: in.AssignmentID,
		UserID:       userID,
		Date:         domain.TruncateDay(in.Date),
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		Status:       in.Status,
		Notes:        in.Notes,
		CreatedAt:    time.Now().UTC(),
	}
	if a.Status == "" {
		a.Status = domain.AttendancePresent
	}
	return a, nil
}

func (s *AttendanceService) owned(ctx context.Context, userID, id string) (*domain.Attendance, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.attendance(userID, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttendanceService) enrich(ctx context.Context, items []*domain.Attendance) ([]*domain.AttendanceDetail, error) {
	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.AssignmentID)
	}
	assignments, workers, err := loadAssignmentWorkers(ctx, s.assignments, s.workers, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AttendanceDetail, 0, len(items))
	for _, a := range items {
		d := &domain.AttendanceDetail{Attendance: *a}
		if asg, ok := assignments[a.AssignmentID]; ok {
			d.JobType = asg.JobType.Display()
			if w, ok := workers[asg.WorkerID]; ok {
				d.WorkerName = w.FullName
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// resolveAssignment loads an assignment referenced from a request body. A
// missing or foreign assignment is an input error, not a missing resource.
func resolveAssignment(ctx context.Context, repo ports.AssignmentRepository, policy ownershipPolicy, userID, id string) (*domain.Assignment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: assignment_id is required", domain.ErrInvalidInput)
	}
	a, err := repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAssignmentNotFound) {
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	if err != nil || policy.assignment(userID, a) != nil {
		return nil, fmt.Errorf("%w: assignment %q does not exist", domain.ErrInvalidInput, id)
	}
	return a, nil
}

// loadAssignmentWorkers batch-loads assignments and the workers behind them.
func loadAssignmentWorkers(
	ctx context.Context,
	assignmentRepo ports.AssignmentRepository,
	workerRepo ports.WorkerRepository,
	assignmentIDs []string,
) (map[string]*domain.Assignment, map[string]*domain.Worker, error) {
	assignments, err := assignmentRepo.FindByIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load assignments: %w", err)
	}
	workerIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		workerIDs = append(workerIDs, a.WorkerID)
	}
	workers, err := workerRepo.FindByIDs(ctx, workerIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load workers: %w", err)
	}
	return assignments, workers, nil
}
