package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const collectionAdjustments = "loan_adjustments"

// AdjustmentRepository stores the append-only loan ledger. It has no update
// or delete methods.
type AdjustmentRepository struct {
	col *mongo.Collection
}

func NewAdjustmentRepository(db *mongo.Database) *AdjustmentRepository {
	return &AdjustmentRepository{col: db.Collection(collectionAdjustments)}
}

type adjustmentDoc struct {
	ID        string               `bson:"_id"`
	WorkerID  string               `bson:"worker_id"`
	PaymentID string               `bson:"payment_id,omitempty"`
	Kind      string               `bson:"kind"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Notes     string               `bson:"notes,omitempty"`
	CreatedBy string               `bson:"created_by"`
	CreatedAt time.Time            `bson:"created_at"`
}

func (d *adjustmentDoc) toDomain() (*domain.LoanAdjustment, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.LoanAdjustment{
		ID:        d.ID,
		WorkerID:  d.WorkerID,
		PaymentID: d.PaymentID,
		Kind:      domain.AdjustmentKind(d.Kind),
		Amount:    amount,
		Notes:     d.Notes,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (r *AdjustmentRepository) Create(ctx context.Context, a *domain.LoanAdjustment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	amount, err := toDecimal128(a.Amount)
	if err != nil {
		return err
	}
	doc := adjustmentDoc{
		ID:        a.ID,
		WorkerID:  a.WorkerID,
		PaymentID: a.PaymentID,
		Kind:      string(a.Kind),
		Amount:    amount,
		Notes:     a.Notes,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

func (r *AdjustmentRepository) ListByWorker(ctx context.Context, workerID string, page ports.Page) ([]*domain.LoanAdjustment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	docs, total, err := findPage[adjustmentDoc](ctx, r.col, bson.M{"worker_id": workerID}, sort, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list adjustments: %w", err)
	}

	out := make([]*domain.LoanAdjustment, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, nil
}

func (r *AdjustmentRepository) CountByWorker(ctx context.Context, workerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"worker_id": workerID})
}

func (r *AdjustmentRepository) CountDeductionsByPayment(ctx context.Context, paymentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"payment_id": paymentID, "kind": string(domain.AdjustmentDeduction)})
}

func (r *AdjustmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "worker_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
