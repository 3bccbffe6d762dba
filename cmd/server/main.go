package main

import (
	"context"
	"fmt"
	"log"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/api"
	"github.com/projectreach/reach_go_server/internal/api/handler"
	"github.com/projectreach/reach_go_server/internal/database"
	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/pkg/badge"
	"github.com/projectreach/reach_go_server/internal/pkg/email"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
	"github.com/projectreach/reach_go_server/internal/pkg/oss"
	"github.com/projectreach/reach_go_server/internal/pkg/pubsub"
	"github.com/projectreach/reach_go_server/internal/pkg/queue"
	"github.com/projectreach/reach_go_server/internal/pkg/ws"
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

	if err := db.AutoMigrate(
		&model.Donor{},
		&model.Campaign{},
		&model.Donation{},
		&model.Subscription{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

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

	// 初始化 WebSocket Hub，订阅进度频道并对外广播
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			if err := wsHub.Broadcast(&ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to broadcast progress: %v", err)
			}
		})
		if err != nil {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化支付网关
	gw := gateway.NewStripeGateway(&cfg.Stripe)

	// 初始化 Repository
	donorRepo := repository.NewDonorRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(cfg)
	donorService := service.NewDonorService(donorRepo, donationRepo, subRepo)
	campaignService := service.NewCampaignService(campaignRepo, donationRepo)
	donationService := service.NewDonationService(donationRepo, donorService, campaignService, gw)
	subscriptionService := service.NewSubscriptionService(subRepo, donorRepo, donorService, gw, cfg)
	statsService := service.NewStatsService(donationRepo, subRepo, campaignRepo, cfg)

	emailService := email.NewService(&cfg.Email)
	badgeGen := badge.NewGenerator(&cfg.Badge)
	notifyService := service.NewNotifyService(emailService, badgeGen, ossClient, donationRepo, campaignRepo)

	campaignService.SetPublisher(publisher)
	campaignService.SetNotifier(notifyService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	donorHandler := handler.NewDonorHandler(donorService, donationService)
	donationHandler := handler.NewDonationHandler(donationService)
	paymentHandler := handler.NewPaymentHandler(subscriptionService, statsService)
	webhookHandler := handler.NewWebhookHandler(eventQueue, cfg.Stripe.WebhookSecret)
	websocketHandler := handler.NewWebSocketHandler(wsHub)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		campaignHandler,
		donorHandler,
		donationHandler,
		paymentHandler,
		webhookHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
