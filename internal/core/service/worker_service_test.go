package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

func newWorkerFixture() (*memStore, *WorkerService) {
	s := newMemStore()
	svc := NewWorkerService(stubWorkerRepo{s}, stubAssignmentRepo{s}, stubAdjustmentRepo{s}, stubTx{s}, zerolog.Nop())
	return s, svc
}

func TestWorkerService_Create(t *testing.T) {
	s, svc := newWorkerFixture()

	w, err := svc.Create(context.Background(), ports.WorkerInput{
		FullName:    "  Ravi Kumar ",
		PhoneNumber: "+919812345678",
		IDType:      "AADHAAR",
		IDNumber:    "1234-5678",
		Gender:      domain.GenderMale,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if w.ID == "" || w.FullName != "Ravi Kumar" {
		t.Fatalf("unexpected worker: %+v", w)
	}
	if !w.LoanBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", w.LoanBalance)
	}
	if _, ok := s.workers[w.ID]; !ok {
		t.Fatal("worker not stored")
	}
}

func TestWorkerService_ListSearch(t *testing.T) {
	s, svc := newWorkerFixture()
	s.seedWorker("w1", "Ravi Kumar")
	s.seedWorker("w2", "Meena Devi")
	w3 := s.seedWorker("w3", "Suresh")
	w3.IDNumber = "XY-RAV-99"
	s.workers["w3"] = w3

	page, err := svc.List(context.Background(), ports.WorkerFilter{Search: " rav "})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Total)
	}

	page, err = svc.List(context.Background(), ports.WorkerFilter{Page: ports.Page{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 || page.TotalPages != 2 {
		t.Fatalf("unexpected page: total=%d items=%d pages=%d", page.Total, len(page.Items), page.TotalPages)
	}
}

func TestWorkerService_UpdateKeepsLoanBalance(t *testing.T) {
	s, svc := newWorkerFixture()
	w := s.seedWorker("w1", "Ravi")
	w.LoanBalance = dec("700")
	s.workers["w1"] = w

	city := "Pune"
	verified := true
	got, err := svc.Update(context.Background(), "w1", ports.WorkerUpdate{City: &city, IsVerified: &verified})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.City != "Pune" || !got.IsVerified || got.FullName != "Ravi" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !s.workers["w1"].LoanBalance.Equal(dec("700")) {
		t.Fatalf("balance changed to %s", s.workers["w1"].LoanBalance)
	}

	if _, err := svc.Update(context.Background(), "nope", ports.WorkerUpdate{}); !errors.Is(err, domain.ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound, got %v", err)
	}
}

func TestWorkerService_DeleteBlockedByReferences(t *testing.T) {
	s, svc := newWorkerFixture()
	ctx := context.Background()
	s.seedWorker("w1", "Ravi")
	s.seedWorker("w2", "Meena")
	s.seedWorker("w3", "Suresh")
	s.seedAssignment("a1", "w1", "u1")
	s.adjustments = append(s.adjustments, &domain.LoanAdjustment{ID: "l1", WorkerID: "w2", Kind: domain.AdjustmentGrant, Amount: dec("10")})

	if err := svc.Delete(ctx, "w1"); !errors.Is(err, domain.ErrWorkerInUse) {
		t.Fatalf("expected ErrWorkerInUse for assignment, got %v", err)
	}
	if err := svc.Delete(ctx, "w2"); !errors.Is(err, domain.ErrWorkerInUse) {
		t.Fatalf("expected ErrWorkerInUse for ledger entry, got %v", err)
	}
	if err := svc.Delete(ctx, "w3"); err != nil {
		t.Fatalf("expected w3 to be deleted, got %v", err)
	}
	if err := svc.Delete(ctx, "w3"); !errors.Is(err, domain.ErrWorkerNotFound) {
		t.Fatalf("expected ErrWorkerNotFound, got %v", err)
	}
	if len(s.workers) != 2 {
		t.Fatalf("expected 2 workers left, got %d", len(s.workers))
	}
}
