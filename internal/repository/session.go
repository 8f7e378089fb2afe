package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type MongoSessionRepository struct {
	col *mongo.Collection
}

func NewMongoSessionRepository(col *mongo.Collection) *MongoSessionRepository {
	return &MongoSessionRepository{col: col}
}

var _ SessionRepository = (*MongoSessionRepository)(nil)

func (r *MongoSessionRepository) Insert(ctx context.Context, s *models.Session) error {
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *MongoSessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now}}); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
