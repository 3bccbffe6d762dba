package service

import (
	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/repository"
)

type StatsService struct {
	donationRepo *repository.DonationRepository
	subRepo      *repository.SubscriptionRepository
	campaignRepo *repository.CampaignRepository
	cfg          *config.Config
}

func NewStatsService(
	donationRepo *repository.DonationRepository,
	subRepo *repository.SubscriptionRepository,
	campaignRepo *repository.CampaignRepository,
	cfg *config.Config,
) *StatsService {
	return &StatsService{
		donationRepo: donationRepo,
		subRepo:      subRepo,
		campaignRepo: campaignRepo,
		cfg:          cfg,
	}
}

// PaymentStats 平台级支付统计
func (s *StatsService) PaymentStats() (*dto.PaymentStats, error) {
	total, count, err := s.donationRepo.TotalCompleted()
	if err != nil {
		return nil, err
	}

	activeSubs, err := s.subRepo.ListActive()
	if err != nil {
		return nil, err
	}

	// 月度经常性收入按各活跃订阅的方案价格求和
	var mrr float64
	for _, sub := range activeSubs {
		if plan, ok := s.cfg.Plans[sub.PlanID]; ok {
			mrr += float64(plan.PriceCents) / 100
		}
	}

	openCampaigns, err := s.campaignRepo.CountByStatus(model.CampaignStatusOpen)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentStats{
		TotalDonationsAmount:    total,
		TotalDonationsCount:     count,
		MonthlyRecurringRevenue: mrr,
		ActiveSubscriptions:     int64(len(activeSubs)),
		TotalCampaigns:          openCampaigns,
	}, nil
}
