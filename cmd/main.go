package main

import (
	"context"
	"log"
	"time"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/audit"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/auth"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/cache"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/config"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/db"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/kafka"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/payment"
	taskprocessor "github.com/Space-Xplorer/Erimuga-sub000/internal/processor"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/repository"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/server"
	"github.com/Space-Xplorer/Erimuga-sub000/internal/service"
)

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Error in connection to db: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	orderRepo := repository.NewMongoOrderRepository(db.Collection(client, cfg.MongoDB, "orders"))
	userRepo := repository.NewMongoUserRepository(db.Collection(client, cfg.MongoDB, "users"))
	productRepo := repository.NewMongoProductRepository(
		db.Collection(client, cfg.MongoDB, "products"),
		db.Collection(client, cfg.MongoDB, "counters"),
	)
	metadataRepo := repository.NewMongoMetadataRepository(db.Collection(client, cfg.MongoDB, "metadata"))
	sessionRepo := repository.NewMongoSessionRepository(db.Collection(client, cfg.MongoDB, "sessions"))
	taskRepo := repository.NewMongoTaskRepository(db.Collection(client, cfg.MongoDB, "audit_tasks"))

	processors := []audit.Processor{
		audit.NewMongoProcessor(db.Collection(client, cfg.MongoDB, "audit_logs")),
		&audit.StdoutProcessor{Filter: cfg.AuditFilterWord},
	}
	if len(cfg.KafkaBrokers) > 0 {
		processors = append(processors, audit.NewOutboxProcessor(taskRepo))
	}
	auditPool := audit.NewWorkerPool(audit.PoolConfig{
		BatchSize:   cfg.AuditBatchSize,
		Timeout:     cfg.AuditFlushInterval,
		ChannelSize: 256,
	}, processors...)
	auditPool.Start(ctx, 2)
	defer auditPool.Shutdown(cancel)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewSaramaProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("Error creating kafka producer: %v", err)
		}
		defer producer.Close()

		tp := taskprocessor.NewTaskProcessor(taskRepo, producer, cfg.KafkaTopic, 2*time.Second, 50)
		go tp.Start(ctx)

		if cfg.KafkaConsumer {
			go func() {
				if err := kafka.StartAuditConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic); err != nil {
					log.Printf("kafka consumer stopped: %v", err)
				}
			}()
		}
	}

	metaCache := cache.NewMetadataCache()
	if err := metaCache.Refresh(ctx, metadataRepo); err != nil {
		log.Printf("metadata cache warm-up failed: %v", err)
	}
	go metaCache.StartAutoRefresh(ctx, metadataRepo, 5*time.Minute)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	authSvc := auth.NewService(userRepo, sessionRepo, cfg.SessionTTL)
	go authSvc.StartSessionCleanup(ctx, time.Hour)
	orderSvc := service.NewOrderService(orderRepo, userRepo, gateway, auditPool)
	cartSvc := service.NewCartService(userRepo, productRepo)
	productSvc := service.NewProductService(productRepo)

	srv := server.NewServer(orderSvc, cartSvc, productSvc, authSvc, metadataRepo, metaCache, auditPool, cfg.Addr())

	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
