package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const collectionAssignments = "assignments"

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

type assignmentDoc struct {
	ID            string               `bson:"_id"`
	WorkerID      string               `bson:"worker_id"`
	UserID        string               `bson:"user_id"`
	JobType       string               `bson:"job_type"`
	MonthlySalary primitive.Decimal128 `bson:"monthly_salary"`
	ShiftStart    string               `bson:"shift_start"`
	ShiftEnd      string               `bson:"shift_end"`
	StartDate     time.Time            `bson:"start_date"`
	EndDate       *time.Time           `bson:"end_date,omitempty"`
	Status        string               `bson:"status"`
	Duties        string               `bson:"duties"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func newAssignmentDoc(a *domain.Assignment) (*assignmentDoc, error) {
	salary, err := toDecimal128(a.MonthlySalary)
	if err != nil {
		return nil, err
	}
	return &assignmentDoc{
		ID:            a.ID,
		WorkerID:      a.WorkerID,
		UserID:        a.UserID,
		JobType:       string(a.JobType),
		MonthlySalary: salary,
		ShiftStart:    a.ShiftStart,
		ShiftEnd:      a.ShiftEnd,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		Status:        string(a.Status),
		Duties:        a.Duties,
		CreatedAt:     a.CreatedAt,
	}, nil
}

func (d *assignmentDoc) toDomain() (*domain.Assignment, error) {
	salary, err := fromDecimal128(d.MonthlySalary)
	if err != nil {
		return nil, err
	}
	return &domain.Assignment{
		ID:            d.ID,
		WorkerID:      d.WorkerID,
		UserID:        d.UserID,
		JobType:       domain.JobType(d.JobType),
		MonthlySalary: salary,
		ShiftStart:    d.ShiftStart,
		ShiftEnd:      d.ShiftEnd,
		StartDate:     d.StartDate.UTC(),
		EndDate:       utcPtr(d.EndDate),
		Status:        domain.AssignmentStatus(d.Status),
		Duties:        d.Duties,
		CreatedAt:     d.CreatedAt,
	}, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newAssignmentDoc(a)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc assignmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return doc.toDomain()
}

func (r *AssignmentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := findByIDs[assignmentDoc](ctx, r.col, ids)
	if err != nil {
		return nil, fmt.Errorf("assignments: %w", err)
	}
	out := make(map[string]*domain.Assignment, len(docs))
	for i := range docs {
		a, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, nil
}

func (r *AssignmentRepository) List(ctx context.Context, f ports.AssignmentFilter) ([]*domain.Assignment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.WorkerID != "" {
		filter["worker_id"] = f.WorkerID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	docs, total, err := findPage[assignmentDoc](ctx, r.col, filter, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	out := make([]*domain.Assignment, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, nil
}

// Update rewrites the mutable terms of an assignment. Worker and owner stay fixed.
func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newAssignmentDoc(a)
	if err != nil {
		return err
	}
	set := bson.M{
		"job_type":       doc.JobType,
		"monthly_salary": doc.MonthlySalary,
		"shift_start":    doc.ShiftStart,
		"shift_end":      doc.ShiftEnd,
		"start_date":     doc.StartDate,
		"end_date":       doc.EndDate,
		"status":         doc.Status,
		"duties":         doc.Duties,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"worker_id": workerID})
}

func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "worker_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
