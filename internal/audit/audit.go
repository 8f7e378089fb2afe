// Package audit buffers order lifecycle events on a channel and flushes them
// in batches, by size or by timeout, to a set of processors. Logging must
// never block or fail a request: a full channel drops the event.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
)

type Event struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	OrderID   string    `bson:"orderId,omitempty" json:"orderId,omitempty"`
	OldStatus string    `bson:"oldStatus,omitempty" json:"oldStatus,omitempty"`
	NewStatus string    `bson:"newStatus,omitempty" json:"newStatus,omitempty"`
	ActorID   string    `bson:"actorId,omitempty" json:"actorId,omitempty"`
	Endpoint  string    `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	Message   string    `bson:"message" json:"message"`
}

type Processor interface {
	Process(batch []Event) error
}

// MongoProcessor appends batches to the audit_logs collection.
type MongoProcessor struct {
	col *mongo.Collection
}

func NewMongoProcessor(col *mongo.Collection) *MongoProcessor {
	return &MongoProcessor{col: col}
}

func (p *MongoProcessor) Process(batch []Event) error {
	docs := make([]interface{}, 0, len(batch))
	for _, rec := range batch {
		docs = append(docs, rec)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := p.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}

// StdoutProcessor prints events, optionally only those whose message
// contains Filter.
type StdoutProcessor struct {
	Filter string
}

func (p *StdoutProcessor) Process(batch []Event) error {
	for _, rec := range batch {
		if p.Filter != "" &&
			!strings.Contains(strings.ToLower(rec.Message), strings.ToLower(p.Filter)) {
			continue
		}
		log.Printf("AUDIT %s | order=%s | %s -> %s | %s",
			rec.Timestamp.Format(time.RFC3339), rec.OrderID, rec.OldStatus, rec.NewStatus, rec.Message)
	}
	return nil
}

// OutboxProcessor stores events as pending tasks; the task processor later
// publishes them to Kafka with retries, so a broker outage loses nothing.
type OutboxProcessor struct {
	tasks repository.TaskRepository
}

func NewOutboxProcessor(tasks repository.TaskRepository) *OutboxProcessor {
	return &OutboxProcessor{tasks: tasks}
}

func (p *OutboxProcessor) Process(batch []Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, rec := range batch {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal audit event: %w", err)
		}
		if err := p.tasks.CreateTask(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

type PoolConfig struct {
	BatchSize   int
	Timeout     time.Duration
	ChannelSize int
}

type WorkerPool struct {
	inputCh    chan Event
	processors []Processor
	batchSize  int
	timeout    time.Duration

	wg sync.WaitGroup
}

func NewWorkerPool(cfg PoolConfig, processors ...Processor) *WorkerPool {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.ChannelSize <= 0 {
		cfg.ChannelSize = 256
	}
	return &WorkerPool{
		inputCh:    make(chan Event, cfg.ChannelSize),
		processors: processors,
		batchSize:  cfg.BatchSize,
		timeout:    cfg.Timeout,
	}
}

func (p *WorkerPool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.worker(ctx)
		}()
	}
}

func (p *WorkerPool) worker(ctx context.Context) {
	var batch []Event
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				p.processBatch(batch)
			}
			return
		case rec := <-p.inputCh:
			batch = append(batch, rec)
			if len(batch) >= p.batchSize {
				if !timer.Stop() {
					<-timer.C
				}
				p.processBatch(batch)
				batch = nil
				timer.Reset(p.timeout)
			}
		case <-timer.C:
			if len(batch) > 0 {
				p.processBatch(batch)
				batch = nil
			}
			timer.Reset(p.timeout)
		}
	}
}

func (p *WorkerPool) processBatch(batch []Event) {
	for _, proc := range p.processors {
		if err := proc.Process(batch); err != nil {
			log.Printf("audit: error processing batch: %v", err)
		}
	}
}

// Log enqueues an event, dropping it when the buffer is full.
func (p *WorkerPool) Log(record Event) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	select {
	case p.inputCh <- record:
	default:
		log.Println("audit: channel full, dropping event")
	}
}

// Shutdown cancels the workers and waits for in-flight batches.
func (p *WorkerPool) Shutdown(cancel context.CancelFunc) {
	cancel()
	p.wg.Wait()
}
