package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/database"
	"github.com/projectreach/reach_go_server/internal/pkg/badge"
	"github.com/projectreach/reach_go_server/internal/pkg/email"
	"github.com/projectreach/reach_go_server/internal/pkg/oss"
	"github.com/projectreach/reach_go_server/internal/pkg/pubsub"
	"github.com/projectreach/reach_go_server/internal/pkg/queue"
	"github.com/projectreach/reach_go_server/internal/repository"
	"github.com/projectreach/reach_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选，徽章存储）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	eventQueue := queue.NewQueue(rdb, cfg.Queue.EventQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository
	donorRepo := repository.NewDonorRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	// 初始化 Service
	donorService := service.NewDonorService(donorRepo, donationRepo, subRepo)
	campaignService := service.NewCampaignService(campaignRepo, donationRepo)

	emailService := email.NewService(&cfg.Email)
	badgeGen := badge.NewGenerator(&cfg.Badge)
	notifyService := service.NewNotifyService(emailService, badgeGen, ossClient, donationRepo, campaignRepo)

	campaignService.SetPublisher(publisher)
	campaignService.SetNotifier(notifyService)

	reconcileService := service.NewReconcileService(
		eventRepo, donationRepo, subRepo, donorRepo, donorService, campaignService)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Webhook worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := eventQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop event: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing event %s (%s)", workerID, msg.EventID, msg.Type)
					if err := reconcileService.HandleEvent(ctx, msg); err != nil {
						log.Printf("Worker %d: event %s failed: %v", workerID, msg.EventID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
