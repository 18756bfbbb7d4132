package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestaff/staff-ledger/internal/core/domain"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

const collectionPayments = "payments"

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type paymentDoc struct {
	ID               string               `bson:"_id"`
	AssignmentID     string               `bson:"assignment_id"`
	UserID           string               `bson:"user_id"`
	Amount           primitive.Decimal128 `bson:"amount"`
	ActualPaidAmount primitive.Decimal128 `bson:"actual_paid_amount"`
	PaymentDate      time.Time            `bson:"payment_date"`
	PaymentMode      string               `bson:"payment_mode"`
	Status           string               `bson:"status"`
	Notes            string               `bson:"notes,omitempty"`
	CreatedAt        time.Time            `bson:"created_at"`
}

func (d *paymentDoc) toDomain() (*domain.Payment, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	actual, err := fromDecimal128(d.ActualPaidAmount)
	if err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:               d.ID,
		AssignmentID:     d.AssignmentID,
		UserID:           d.UserID,
		Amount:           amount,
		ActualPaidAmount: actual,
		PaymentDate:      d.PaymentDate.UTC(),
		PaymentMode:      domain.PaymentMode(d.PaymentMode),
		Status:           domain.PaymentStatus(d.Status),
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
	}, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	amount, err := toDecimal128(p.Amount)
	if err != nil {
		return err
	}
	actual, err := toDecimal128(p.ActualPaidAmount)
	if err != nil {
		return err
	}
	doc := paymentDoc{
		ID:               p.ID,
		AssignmentID:     p.AssignmentID,
		UserID:           p.UserID,
		Amount:           amount,
		ActualPaidAmount: actual,
		PaymentDate:      p.PaymentDate,
		PaymentMode:      string(p.PaymentMode),
		Status:           string(p.Status),
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc paymentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return doc.toDomain()
}

func (r *PaymentRepository) List(ctx context.Context, f ports.PaymentFilter) ([]*domain.Payment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.AssignmentID != "" {
		filter["assignment_id"] = f.AssignmentID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	sort := bson.D{{Key: "payment_date", Value: -1}, {Key: "created_at", Value: -1}}
	docs, total, err := findPage[paymentDoc](ctx, r.col, filter, sort, f.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	out := make([]*domain.Payment, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"payment_date": p.PaymentDate,
		"payment_mode": string(p.PaymentMode),
		"status":       string(p.Status),
		"notes":        p.Notes,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) SetActualPaidAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	v, err := toDecimal128(amount)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"actual_paid_amount": v}})
	if err != nil {
		return fmt.Errorf("set actual paid amount: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) CountByAssignment(ctx context.Context, assignmentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"assignment_id": assignmentID})
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "payment_date", Value: -1}}},
		{Keys: bson.D{{Key: "assignment_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
