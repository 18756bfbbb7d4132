package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const collectionAttendance = "attendance"

type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type attendanceDoc struct {
	ID           string    `bson:"_id"`
	AssignmentID string    `bson:"assignment_id"`
	UserID       string    `bson:"user_id"`
	Date         time.Time `bson:"date"`
	CheckIn      string    `bson:"check_in,omitempty"`
	CheckOut     string    `bson:"check_out,omitempty"`
	Status       string    `bson:"status"`
	Notes        string    `bson:"notes,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func newAttendanceDoc(a *domain.Attendance) attendanceDoc {
	return attendanceDoc{
		ID:           a.ID,
		AssignmentID: a.AssignmentID,
		UserID:       a.UserID,
		Date:         domain.TruncateDay(a.Date),
		CheckIn:      a.CheckIn,
		CheckOut:     a.CheckOut,
		Status:       string(a.Status),
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
	}
}

func (d *attendanceDoc) toDomain() *domain.Attendance {
	return &domain.Attendance{
		ID:           d.ID,
		AssignmentID: d.AssignmentID,
		UserID:       d.UserID,
		Date:         d.Date.UTC(),
		CheckIn:      d.CheckIn,
		CheckOut:     d.CheckOut,
		Status:       domain.AttendanceStatus(d.Status),
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
}

func (r *AttendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newAttendanceDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAttendance
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// CreateMany performs an ordered insert. Atomicity comes from the caller's
// transaction; outside one, records before a failure stay written.
func (r *AttendanceRepository) CreateMany(ctx context.Context, records []*domain.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(records))
	for _, a := range records {
		docs = append(docs, newAttendanceDoc(a))
	}

	if _, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAttendance
		}
		return fmt.Errorf("insert attendance batch: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*domain.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc attendanceDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AttendanceRepository) List(ctx context.Context, f ports.AttendanceFilter) ([]*domain.Attendance, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.AssignmentID != "" {
		filter["assignment_id"] = f.AssignmentID
	}
	if f.Date != nil {
		filter["date"] = domain.TruncateDay(*f.Date)
	}

	docs, total, err := findPage[attendanceDoc](ctx, r.col, filter, bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	out := make([]*domain.Attendance, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, a *domain.Attendance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"check_in":  a.CheckIn,
		"check_out": a.CheckOut,
		"status":    string(a.Status),
		"notes":     a.Notes,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) CountByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"assignment_id": assignmentID})
}

func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
