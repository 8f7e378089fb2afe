package repository

import (
	"errors"
	"fmt"

	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(col *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{col: col}
}

var _ OrderRepository = (*MongoOrderRepository)(nil)

func (r *MongoOrderRepository) Insert(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Revision == 0 {
		o.Revision = 1
	}
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad order id %q", apperr.ErrNotFound, id)
	}
	var o models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders newest first.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	defer cursor.Close(ctx)

	var res []*models.Order
	if err := cursor.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return res, nil
}

func (r *MongoOrderRepository) List(ctx context.Context, limit int64) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var res []*models.Order
	if err := cursor.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return res, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, revision int64, status models.OrderStatus) (*models.Order, error) {
	return r.conditionalUpdate(ctx, id, revision, bson.M{"status": status})
}

func (r *MongoOrderRepository) UpdatePayment(ctx context.Context, id string, revision int64, paymentStatus string, payment bool) (*models.Order, error) {
	return r.conditionalUpdate(ctx, id, revision, bson.M{
		"paymentStatus": paymentStatus,
		"payment":       payment,
	})
}

// conditionalUpdate applies set only when the stored revision still matches
// the one the caller read, bumping the revision in the same write. A matched
// count of zero is a lost race when the order still exists.
func (r *MongoOrderRepository) conditionalUpdate(ctx context.Context, id string, revision int64, set bson.M) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad order id %q", apperr.ErrNotFound, id)
	}
	update := bson.M{"$set": set, "$inc": bson.M{"revision": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "revision": revision}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: order %s changed concurrently", apperr.ErrConflict, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return &updated, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad order id %q", apperr.ErrNotFound, id)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return nil
}
