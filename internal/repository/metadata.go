package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type MongoMetadataRepository struct {
	col *mongo.Collection
}

func NewMongoMetadataRepository(col *mongo.Collection) *MongoMetadataRepository {
	return &MongoMetadataRepository{col: col}
}

var _ MetadataRepository = (*MongoMetadataRepository)(nil)

func (r *MongoMetadataRepository) Insert(ctx context.Context, m *models.Metadata) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}
	return nil
}

func (r *MongoMetadataRepository) GetByID(ctx context.Context, id string) (*models.Metadata, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad metadata id %q", apperr.ErrNotFound, id)
	}
	var m models.Metadata
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata by id: %w", err)
	}
	return &m, nil
}

func (r *MongoMetadataRepository) List(ctx context.Context) ([]*models.Metadata, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	defer cursor.Close(ctx)

	var res []*models.Metadata
	if err := cursor.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return res, nil
}

func (r *MongoMetadataRepository) Update(ctx context.Context, m *models.Metadata) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: metadata %s", apperr.ErrNotFound, m.ID.Hex())
	}
	return nil
}

func (r *MongoMetadataRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad metadata id %q", apperr.ErrNotFound, id)
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: metadata %s", apperr.ErrNotFound, id)
	}
	return nil
}
