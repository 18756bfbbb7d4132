package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

// memStore keeps every collection in maps of clones. Stored values are never
// mutated in place, so a shallow copy of the maps is a valid snapshot.
type memStore struct {
	users       map[string]*domain.User
	workers     map[string]*domain.Worker
	assignments map[string]*domain.Assignment
	attendance  map[string]*domain.Attendance
	payments    map[string]*domain.Payment
	adjustments []*domain.LoanAdjustment
	workerRefs  map[string]int64

	// beforeReference, when set, runs at the start of AddReference. Tests use
	// it to stand in for a delete that commits between read and write.
	beforeReference func(id string)

	// balanceConflict, when set, makes the next UpdateLoanBalance behave as
	// if another writer got there first.
	balanceConflict bool
	txCalls         int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*domain.User),
		workers:     make(map[string]*domain.Worker),
		assignments: make(map[string]*domain.Assignment),
		attendance:  make(map[string]*domain.Attendance),
		payments:    make(map[string]*domain.Payment),
		workerRefs:  make(map[string]int64),
	}
}

type memSnapshot struct {
	users       map[string]*domain.User
	workers     map[string]*domain.Worker
	assignments map[string]*domain.Assignment
	attendance  map[string]*domain.Attendance
	payments    map[string]*domain.Payment
	adjustments []*domain.LoanAdjustment
	workerRefs  map[string]int64
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:       copyMap(s.users),
		workers:     copyMap(s.workers),
		assignments: copyMap(s.assignments),
		attendance:  copyMap(s.attendance),
		payments:    copyMap(s.payments),
		adjustments: append([]*domain.LoanAdjustment(nil), s.adjustments...),
		workerRefs:  copyMap(s.workerRefs),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = snap.users
	s.workers = snap.workers
	s.assignments = snap.assignments
	s.attendance = snap.attendance
	s.payments = snap.payments
	s.adjustments = snap.adjustments
	s.workerRefs = snap.workerRefs
}

// stubTx rolls the store back when fn fails, mirroring an aborted transaction.
type stubTx struct{ s *memStore }

func (t stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.s.txCalls++
	snap := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func paginate[T any](items []T, p ports.Page) []T {
	p = p.Normalize()
	start := int(p.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct{ s *memStore }

func (r stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r stubUserRepo) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.PhoneNumber == phone {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.s.users {
		if u.PhoneNumber == user.PhoneNumber {
			return domain.ErrUserExists
		}
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u = clone(u)
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}

func (r stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate, at time.Time) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u = clone(u)
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	u.UpdatedAt = at
	r.s.users[id] = u
	return clone(u), nil
}

type stubOTPStore struct {
	codes map[string]string
	ttls  map[string]time.Duration
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{codes: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (o *stubOTPStore) Save(_ context.Context, phone, digest string, ttl time.Duration) error {
	o.codes[phone] = digest
	o.ttls[phone] = ttl
	return nil
}

func (o *stubOTPStore) Consume(_ context.Context, phone, digest string) (bool, error) {
	stored, ok := o.codes[phone]
	if !ok || stored != digest {
		return false, nil
	}
	delete(o.codes, phone)
	return true, nil
}

type sentSMS struct {
	phone   string
	message string
}

type stubSMS struct {
	sent []sentSMS
	err  error
}

func (s *stubSMS) Send(_ context.Context, phone, message string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentSMS{phone: phone, message: message})
	return nil
}

// ---------------------------------------------------------------------------
// Workers
// ---------------------------------------------------------------------------

type stubWorkerRepo struct{ s *memStore }

func (r stubWorkerRepo) Create(_ context.Context, w *domain.Worker) error {
	r.s.workers[w.ID] = clone(w)
	return nil
}

func (r stubWorkerRepo) FindByID(_ context.Context, id string) (*domain.Worker, error) {
	w, ok := r.s.workers[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	return clone(w), nil
}

func (r stubWorkerRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Worker, error) {
	out := make(map[string]*domain.Worker, len(ids))
	for _, id := range ids {
		if w, ok := r.s.workers[id]; ok {
			out[id] = clone(w)
		}
	}
	return out, nil
}

func (r stubWorkerRepo) List(_ context.Context, f ports.WorkerFilter) ([]*domain.Worker, int64, error) {
	q := strings.ToLower(f.Search)
	var matched []*domain.Worker
	for _, w := range r.s.workers {
		if q != "" &&
			!strings.Contains(strings.ToLower(w.FullName), q) &&
			!strings.Contains(strings.ToLower(w.PhoneNumber), q) &&
			!strings.Contains(strings.ToLower(w.IDNumber), q) {
			continue
		}
		matched = append(matched, clone(w))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FullName < matched[j].FullName })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r stubWorkerRepo) Update(_ context.Context, w *domain.Worker) error {
	stored, ok := r.s.workers[w.ID]
	if !ok {
		return domain.ErrWorkerNotFound
	}
	c := clone(w)
	c.LoanBalance = stored.LoanBalance
	c.Version = stored.Version
	r.s.workers[w.ID] = c
	return nil
}

func (r stubWorkerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.workers[id]; !ok {
		return domain.ErrWorkerNotFound
	}
	delete(r.s.workers, id)
	return nil
}

func (r stubWorkerRepo) UpdateLoanBalance(_ context.Context, id string, expectedVersion int64, balance decimal.Decimal) error {
	stored, ok := r.s.workers[id]
	if !ok {
		return domain.ErrWorkerNotFound
	}
	if r.s.balanceConflict || stored.Version != expectedVersion {
		r.s.balanceConflict = false
		return domain.ErrConcurrentUpdate
	}
	c := clone(stored)
	c.LoanBalance = balance
	c.Version++
	r.s.workers[id] = c
	return nil
}

func (r stubWorkerRepo) AddReference(_ context.Context, id string) error {
	if r.s.beforeReference != nil {
		r.s.beforeReference(id)
	}
	if _, ok := r.s.workers[id]; !ok {
		return domain.ErrWorkerNotFound
	}
	r.s.workerRefs[id]++
	return nil
}

// ---------------------------------------------------------------------------
// Assignments
// ---------------------------------------------------------------------------

type stubAssignmentRepo struct{ s *memStore }

func (r stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) error {
	r.s.assignments[a.ID] = clone(a)
	return nil
}

func (r stubAssignmentRepo) FindByID(_ context.Context, id string) (*domain.Assignment, error) {
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	return clone(a), nil
}

func (r stubAssignmentRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Assignment, error) {
	out := make(map[string]*domain.Assignment, len(ids))
	for _, id := range ids {
		if a, ok := r.s.assignments[id]; ok {
			out[id] = clone(a)
		}
	}
	return out, nil
}

func (r stubAssignmentRepo) List(_ context.Context, f ports.AssignmentFilter) ([]*domain.Assignment, int64, error) {
	var matched []*domain.Assignment
	for _, a := range r.s.assignments {
		if a.UserID != f.UserID {
			continue
		}
		if f.WorkerID != "" && a.WorkerID != f.WorkerID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		matched = append(matched, clone(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r stubAssignmentRepo) Update(_ context.Context, a *domain.Assignment) error {
	if _, ok := r.s.assignments[a.ID]; !ok {
		return domain.ErrAssignmentNotFound
	}
	r.s.assignments[a.ID] = clone(a)
	return nil
}

func (r stubAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.assignments[id]; !ok {
		return domain.ErrAssignmentNotFound
	}
	delete(r.s.assignments, id)
	return nil
}

func (r stubAssignmentRepo) CountByWorker(_ context.Context, workerID string) (int64, error) {
	var n int64
	for _, a := range r.s.assignments {
		if a.WorkerID == workerID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Attendance
// ---------------------------------------------------------------------------

type stubAttendanceRepo struct{ s *memStore }

func (r stubAttendanceRepo) exists(a *domain.Attendance) bool {
	for _, existing := range r.s.attendance {
		if existing.UniqueKey() == a.UniqueKey() {
			return true
		}
	}
	return false
}

func (r stubAttendanceRepo) Create(_ context.Context, a *domain.Attendance) error {
	if r.exists(a) {
		return domain.ErrDuplicateAttendance
	}
	r.s.attendance[a.ID] = clone(a)
	return nil
}

// CreateMany inserts in order and stops at the first duplicate, like an
// ordered insertMany. Rollback is left to the transaction.
func (r stubAttendanceRepo) CreateMany(ctx context.Context, records []*domain.Attendance) error {
	for _, a := range records {
		if err := r.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r stubAttendanceRepo) FindByID(_ context.Context, id string) (*domain.Attendance, error) {
	a, ok := r.s.attendance[id]
	if !ok {
		return nil, domain.ErrAttendanceNotFound
	}
	return clone(a), nil
}

func (r stubAttendanceRepo) List(_ context.Context, f ports.AttendanceFilter) ([]*domain.Attendance, int64, error) {
	var matched []*domain.Attendance
	for _, a := range r.s.attendance {
		if a.UserID != f.UserID {
			continue
		}
		if f.AssignmentID != "" && a.AssignmentID != f.AssignmentID {
			continue
		}
		if f.Date != nil && !a.Date.Equal(*f.Date) {
			continue
		}
		matched = append(matched, clone(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r stubAttendanceRepo) Update(_ context.Context, a *domain.Attendance) error {
	if _, ok := r.s.attendance[a.ID]; !ok {
		return domain.ErrAttendanceNotFound
	}
	r.s.attendance[a.ID] = clone(a)
	return nil
}

func (r stubAttendanceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.attendance[id]; !ok {
		return domain.ErrAttendanceNotFound
	}
	delete(r.s.attendance, id)
	return nil
}

func (r stubAttendanceRepo) CountByAssignment(_ context.Context, assignmentID string) (int64, error) {
	var n int64
	for _, a := range r.s.attendance {
		if a.AssignmentID == assignmentID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

type stubPaymentRepo struct{ s *memStore }

func (r stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.s.payments[p.ID] = clone(p)
	return nil
}

func (r stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return clone(p), nil
}

func (r stubPaymentRepo) List(_ context.Context, f ports.PaymentFilter) ([]*domain.Payment, int64, error) {
	var matched []*domain.Payment
	for _, p := range r.s.payments {
		if p.UserID != f.UserID {
			continue
		}
		if f.AssignmentID != "" && p.AssignmentID != f.AssignmentID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		matched = append(matched, clone(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PaymentDate.After(matched[j].PaymentDate) })
	return paginate(matched, f.Page), int64(len(matched)), nil
}

func (r stubPaymentRepo) Update(_ context.Context, p *domain.Payment) error {
	stored, ok := r.s.payments[p.ID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	c := clone(stored)
	c.PaymentDate = p.PaymentDate
	c.PaymentMode = p.PaymentMode
	c.Status = p.Status
	c.Notes = p.Notes
	r.s.payments[p.ID] = c
	return nil
}

func (r stubPaymentRepo) SetActualPaidAmount(_ context.Context, id string, amount decimal.Decimal) error {
	stored, ok := r.s.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	c := clone(stored)
	c.ActualPaidAmount = amount
	r.s.payments[id] = c
	return nil
}

func (r stubPaymentRepo) CountByAssignment(_ context.Context, assignmentID string) (int64, error) {
	var n int64
	for _, p := range r.s.payments {
		if p.AssignmentID == assignmentID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Loan adjustments
// ---------------------------------------------------------------------------

type stubAdjustmentRepo struct{ s *memStore }

func (r stubAdjustmentRepo) Create(_ context.Context, a *domain.LoanAdjustment) error {
	r.s.adjustments = append(r.s.adjustments, clone(a))
	return nil
}

func (r stubAdjustmentRepo) ListByWorker(_ context.Context, workerID string, page ports.Page) ([]*domain.LoanAdjustment, int64, error) {
	var matched []*domain.LoanAdjustment
	for i := len(r.s.adjustments) - 1; i >= 0; i-- {
		if a := r.s.adjustments[i]; a.WorkerID == workerID {
			matched = append(matched, clone(a))
		}
	}
	return paginate(matched, page), int64(len(matched)), nil
}

func (r stubAdjustmentRepo) CountByWorker(_ context.Context, workerID string) (int64, error) {
	var n int64
	for _, a := range r.s.adjustments {
		if a.WorkerID == workerID {
			n++
		}
	}
	return n, nil
}

func (r stubAdjustmentRepo) CountDeductionsByPayment(_ context.Context, paymentID string) (int64, error) {
	var n int64
	for _, a := range r.s.adjustments {
		if a.PaymentID == paymentID && a.Kind == domain.AdjustmentDeduction {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *memStore) seedWorker(id, name string) *domain.Worker {
	w := &domain.Worker{ID: id, FullName: name, PhoneNumber: "+919800000000", LoanBalance: decimal.Zero}
	s.workers[id] = clone(w)
	return w
}

func (s *memStore) seedAssignment(id, workerID, userID string) *domain.Assignment {
	a := &domain.Assignment{
		ID:            id,
		WorkerID:      workerID,
		UserID:        userID,
		JobType:       domain.JobCook,
		MonthlySalary: dec("10000"),
		StartDate:     day("2024-01-01"),
		Status:        domain.AssignmentActive,
	}
	s.assignments[id] = clone(a)
	return a
}

func (s *memStore) seedPayment(id, assignmentID, userID, amount string) *domain.Payment {
	p := &domain.Payment{
		ID:               id,
		AssignmentID:     assignmentID,
		UserID:           userID,
		Amount:           dec(amount),
		ActualPaidAmount: dec(amount),
		PaymentDate:      day("2024-02-01"),
		PaymentMode:      domain.PaymentCash,
		Status:           domain.PaymentCompleted,
	}
	s.payments[id] = clone(p)
	return p
}
