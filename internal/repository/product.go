package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type MongoProductRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoProductRepository(col, counters *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{col: col, counters: counters}
}

var _ ProductRepository = (*MongoProductRepository)(nil)

func (r *MongoProductRepository) Insert(ctx context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad product id %q", apperr.ErrNotFound, id)
	}
	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return &p, nil
}

func (r *MongoProductRepository) List(ctx context.Context, category string, limit int64) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var res []*models.Product
	if err := cursor.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return res, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, p.ID.Hex())
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad product id %q", apperr.ErrNotFound, id)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return nil
}

// NextSequence atomically increments and returns the named counter. Used for
// product code numbering per category/subcategory prefix.
func (r *MongoProductRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return doc.Seq, nil
}
