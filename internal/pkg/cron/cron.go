package cron

import (
	"context"
	"log"
	"time"

	"github.com/projectreach/reach_go_server/internal/service"
)

// Service 活动生命周期巡检：到期活动收尾、临期活动提醒
type Service struct {
	campaignService  *service.CampaignService
	interval         time.Duration
	expiringSoonDays int
	stopChan         chan struct{}
}

func NewService(campaignService *service.CampaignService, intervalMinutes, expiringSoonDays int) *Service {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	if expiringSoonDays <= 0 {
		expiringSoonDays = 7
	}
	return &Service{
		campaignService:  campaignService,
		interval:         time.Duration(intervalMinutes) * time.Minute,
		expiringSoonDays: expiringSoonDays,
		stopChan:         make(chan struct{}),
	}
}

// Start 启动定时巡检
func (s *Service) Start() {
	go s.runSweep()
	log.Printf("Campaign sweep started, interval: %s", s.interval)
}

// Stop 停止定时巡检
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Campaign sweep stopped")
}

func (s *Service) runSweep() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.campaignService.Sweep(context.Background(), s.expiringSoonDays); err != nil {
				log.Printf("Campaign sweep failed: %v", err)
			}
		}
	}
}

// RunNow 立即执行一次巡检（用于测试或手动触发）
func (s *Service) RunNow() error {
	log.Println("Manual campaign sweep triggered...")
	return s.campaignService.Sweep(context.Background(), s.expiringSoonDays)
}
