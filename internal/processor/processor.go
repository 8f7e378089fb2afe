// Package taskprocessor drains the audit outbox: it polls pending tasks and
// publishes them to Kafka, retrying failures a bounded number of times.
package taskprocessor

import (
	"context"
	"log"
	"time"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/kafka"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

type TaskProcessor struct {
	repo         repository.TaskRepository
	producer     kafka.Producer
	topic        string
	pollInterval time.Duration
	limit        int
	maxAttempts  int
	retryDelay   time.Duration
}

func NewTaskProcessor(repo repository.TaskRepository, producer kafka.Producer, topic string, pollInterval time.Duration, limit int) *TaskProcessor {
	return &TaskProcessor{
		repo:         repo,
		producer:     producer,
		topic:        topic,
		pollInterval: pollInterval,
		limit:        limit,
		maxAttempts:  3,
		retryDelay:   2 * time.Second,
	}
}

func (p *TaskProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processPendingTasks(ctx)
		}
	}
}

func (p *TaskProcessor) processPendingTasks(ctx context.Context) {
	tasks, err := p.repo.GetPendingTasks(ctx, p.limit, p.maxAttempts)
	if err != nil {
		log.Printf("taskprocessor: error fetching pending tasks: %v", err)
		return
	}
	for _, task := range tasks {
		if err := p.repo.MarkTaskProcessing(ctx, task.ID); err != nil {
			log.Printf("taskprocessor: error marking task %s processing: %v", task.ID.Hex(), err)
			continue
		}

		if err := p.producer.Publish(p.topic, task.AuditData); err != nil {
			p.recordFailure(ctx, task, err)
			continue
		}
		if err := p.repo.DeleteTask(ctx, task.ID); err != nil {
			log.Printf("taskprocessor: error deleting task %s after publish: %v", task.ID.Hex(), err)
		}
	}
}

func (p *TaskProcessor) recordFailure(ctx context.Context, task *repository.Task, cause error) {
	newAttempt := task.AttemptCount + 1
	newStatus := repository.TaskStatusFailed
	if newAttempt >= p.maxAttempts {
		newStatus = repository.TaskStatusNoAttemptsLeft
	}
	nextAttempt := time.Now().UTC().Add(p.retryDelay)
	if err := p.repo.UpdateTaskFailure(ctx, task.ID, newAttempt, newStatus, nextAttempt); err != nil {
		log.Printf("taskprocessor: error updating task %s on failure: %v", task.ID.Hex(), err)
	}
	log.Printf("taskprocessor: failed to publish task %s: %v", task.ID.Hex(), cause)
}
