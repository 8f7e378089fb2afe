package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskStatus string

const (
	TaskStatusCreated        TaskStatus = "CREATED"
	TaskStatusProcessing     TaskStatus = "PROCESSING"
	TaskStatusFailed         TaskStatus = "FAILED"
	TaskStatusNoAttemptsLeft TaskStatus = "NO_ATTEMPTS_LEFT"
)

// Task is one buffered audit event waiting to be published to Kafka. Events
// are written here first so a broker outage cannot lose them.
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
	AuditData     []byte             `bson:"auditData"`
	Status        TaskStatus         `bson:"status"`
	AttemptCount  int                `bson:"attemptCount"`
	NextAttemptAt *time.Time         `bson:"nextAttemptAt,omitempty"`
}

type TaskRepository interface {
	CreateTask(ctx context.Context, auditData []byte) error
	GetPendingTasks(ctx context.Context, limit int, maxAttempts int) ([]*Task, error)
	MarkTaskProcessing(ctx context.Context, taskID primitive.ObjectID) error
	DeleteTask(ctx context.Context, taskID primitive.ObjectID) error
	UpdateTaskFailure(ctx context.Context, taskID primitive.ObjectID, attemptCount int, newStatus TaskStatus, nextAttemptAt time.Time) error
}

type MongoTaskRepository struct {
	col *mongo.Collection
}

func NewMongoTaskRepository(col *mongo.Collection) *MongoTaskRepository {
	return &MongoTaskRepository{col: col}
}

var _ TaskRepository = (*MongoTaskRepository)(nil)

func (r *MongoTaskRepository) CreateTask(ctx context.Context, auditData []byte) error {
	now := time.Now().UTC()
	task := Task{
		CreatedAt:    now,
		UpdatedAt:    now,
		AuditData:    auditData,
		Status:       TaskStatusCreated,
		AttemptCount: 0,
	}
	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) GetPendingTasks(ctx context.Context, limit int, maxAttempts int) ([]*Task, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"status":       bson.M{"$in": []TaskStatus{TaskStatusCreated, TaskStatusFailed}},
		"attemptCount": bson.M{"$lt": maxAttempts},
		"$or": []bson.M{
			{"nextAttemptAt": bson.M{"$exists": false}},
			{"nextAttemptAt": nil},
			{"nextAttemptAt": bson.M{"$lte": now}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("get pending tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) MarkTaskProcessing(ctx context.Context, taskID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$set": bson.M{"status": TaskStatusProcessing, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("mark task processing: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) UpdateTaskFailure(ctx context.Context, taskID primitive.ObjectID, attemptCount int, newStatus TaskStatus, nextAttemptAt time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$set": bson.M{
			"status":        newStatus,
			"attemptCount":  attemptCount,
			"updatedAt":     time.Now().UTC(),
			"nextAttemptAt": nextAttemptAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update task failure: %w", err)
	}
	return nil
}
