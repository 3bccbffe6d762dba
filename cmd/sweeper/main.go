package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/database"
	"github.com/projectreach/reach_go_server/internal/pkg/badge"
	"github.com/projectreach/reach_go_server/internal/pkg/cron"
	"github.com/projectreach/reach_go_server/internal/pkg/email"
	"github.com/projectreach/reach_go_server/internal/pkg/oss"
	"github.com/projectreach/reach_go_server/internal/pkg/pubsub"
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

	// 初始化 Redis（进度广播用）
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

	// 初始化 Repository 和 Service
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	campaignService := service.NewCampaignService(campaignRepo, donationRepo)
	campaignService.SetPublisher(pubsub.NewPublisher(rdb))

	emailService := email.NewService(&cfg.Email)
	badgeGen := badge.NewGenerator(&cfg.Badge)
	campaignService.SetNotifier(
		service.NewNotifyService(emailService, badgeGen, ossClient, donationRepo, campaignRepo))

	// 启动巡检
	sweeper := cron.NewService(campaignService, cfg.Sweep.IntervalMinutes, cfg.Sweep.ExpiringSoonDays)
	if err := sweeper.RunNow(); err != nil {
		log.Printf("Initial sweep failed: %v", err)
	}
	sweeper.Start()

	// 等待退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	sweeper.Stop()
	log.Println("Sweeper shutdown complete")
}
