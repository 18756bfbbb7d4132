package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const collectionWorkers = "workers"

type WorkerRepository struct {
	col *mongo.Collection
}

func NewWorkerRepository(db *mongo.Database) *WorkerRepository {
	return &WorkerRepository{col: db.Collection(collectionWorkers)}
}

type workerDoc struct {
	ID               string               `bson:"_id"`
	FullName         string               `bson:"full_name"`
	PhoneNumber      string               `bson:"phone_number"`
	EmergencyContact string               `bson:"emergency_contact,omitempty"`
	IDType           string               `bson:"id_type"`
	IDNumber         string               `bson:"id_number"`
	Address          string               `bson:"address"`
	DOB              *time.Time           `bson:"dob,omitempty"`
	City             string               `bson:"city,omitempty"`
	State            string               `bson:"state,omitempty"`
	Gender           string               `bson:"gender,omitempty"`
	ProfilePhoto     string               `bson:"profile_photo,omitempty"`
	IsVerified       bool                 `bson:"is_verified"`
	LoanBalance      primitive.Decimal128 `bson:"loan_balance"`
	Version          int64                `bson:"version"`
	References       int64                `bson:"references"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

func (d *workerDoc) toDomain() (*domain.Worker, error) {
	balance, err := fromDecimal128(d.LoanBalance)
	if err != nil {
		return nil, err
	}
	return &domain.Worker{
		ID:               d.ID,
		FullName:         d.FullName,
		PhoneNumber:      d.PhoneNumber,
		EmergencyContact: d.EmergencyContact,
		IDType:           d.IDType,
		IDNumber:         d.IDNumber,
		Address:          d.Address,
		DOB:              d.DOB,
		City:             d.City,
		State:            d.State,
		Gender:           domain.Gender(d.Gender),
		ProfilePhoto:     d.ProfilePhoto,
		IsVerified:       d.IsVerified,
		LoanBalance:      balance,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

// profileFields are the fields Update is allowed to write.
func profileFields(w *domain.Worker) bson.M {
	return bson.M{
		"full_name":         w.FullName,
		"phone_number":      w.PhoneNumber,
		"emergency_contact": w.EmergencyContact,
		"id_type":           w.IDType,
		"id_number":         w.IDNumber,
		"address":           w.Address,
		"dob":               w.DOB,
		"city":              w.City,
		"state":             w.State,
		"gender":            string(w.Gender),
		"profile_photo":     w.ProfilePhoto,
		"is_verified":       w.IsVerified,
		"updated_at":        w.UpdatedAt,
	}
}

func (r *WorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	balance, err := toDecimal128(w.LoanBalance)
	if err != nil {
		return err
	}
	doc := workerDoc{
		ID:               w.ID,
		FullName:         w.FullName,
		PhoneNumber:      w.PhoneNumber,
		EmergencyContact: w.EmergencyContact,
		IDType:           w.IDType,
		IDNumber:         w.IDNumber,
		Address:          w.Address,
		DOB:              w.DOB,
		City:             w.City,
		State:            w.State,
		Gender:           string(w.Gender),
		ProfilePhoto:     w.ProfilePhoto,
		IsVerified:       w.IsVerified,
		LoanBalance:      balance,
		Version:          w.Version,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*domain.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc workerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, fmt.Errorf("find worker: %w", err)
	}
	return doc.toDomain()
}

func (r *WorkerRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Worker, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := findByIDs[workerDoc](ctx, r.col, ids)
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	out := make(map[string]*domain.Worker, len(docs))
	for i := range docs {
		w, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out[w.ID] = w
	}
	return out, nil
}

// List matches Search case-insensitively against name, phone and ID number.
func (r *WorkerRepository) List(ctx context.Context, f ports.WorkerFilter) ([]*domain.Worker, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"full_name": re},
			bson.M{"phone_number": re},
			bson.M{"id_number": re},
		}
	}

	docs, total, err := findPage[workerDoc](ctx, r.col, filter, bson.D{{Key: "full_name", Value: 1}, {Key: "_id", Value: 1}}, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}

	out := make([]*domain.Worker, 0, len(docs))
	for i := range docs {
		w, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
	return out, total, nil
}

func (r *WorkerRepository) Update(ctx context.Context, w *domain.Worker) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": w.ID}, bson.M{"$set": profileFields(w)})
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

// UpdateLoanBalance is a compare-and-set on the worker's version counter.
func (r *WorkerRepository) UpdateLoanBalance(ctx context.Context, id string, expectedVersion int64, balance decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	v, err := toDecimal128(balance)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": id, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{"loan_balance": v, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update loan balance: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("update loan balance: %w", err)
	}
	if n == 0 {
		return domain.ErrWorkerNotFound
	}
	return domain.ErrConcurrentUpdate
}

// AddReference bumps the reference counter. It leaves version alone so it
// never fails a concurrent loan balance compare-and-set.
func (r *WorkerRepository) AddReference(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"references": 1}})
	if err != nil {
		return fmt.Errorf("add worker reference: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "full_name", Value: 1}}},
		{Keys: bson.D{{Key: "phone_number", Value: 1}}},
		{Keys: bson.D{{Key: "id_number", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
