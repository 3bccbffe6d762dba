package service

import (
	"context"
	"log"
	"time"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/pkg/badge"
	"github.com/projectreach/reach_go_server/internal/pkg/email"
	"github.com/projectreach/reach_go_server/internal/pkg/oss"
	"github.com/projectreach/reach_go_server/internal/repository"
)

// NotifyService 活动通知：致谢邮件、结束通知与纪念徽章。
// 全部通知尽力而为，失败只记日志，绝不回传到结算主流程
type NotifyService struct {
	emailService *email.Service
	badgeGen     *badge.Generator
	ossClient    *oss.Client
	donationRepo *repository.DonationRepository
	campaignRepo *repository.CampaignRepository
}

func NewNotifyService(
	emailService *email.Service,
	badgeGen *badge.Generator,
	ossClient *oss.Client,
	donationRepo *repository.DonationRepository,
	campaignRepo *repository.CampaignRepository,
) *NotifyService {
	return &NotifyService{
		emailService: emailService,
		badgeGen:     badgeGen,
		ossClient:    ossClient,
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
	}
}

// ThankYou 捐赠致谢邮件
func (s *NotifyService) ThankYou(donor *model.Donor, campaign *model.Campaign, amount float64) {
	if s.emailService == nil {
		return
	}
	if err := s.emailService.SendThanks(donor.Email, donor.Name, campaign.Name, amount); err != nil {
		log.Printf("Failed to send thank-you email to %s: %v", donor.Email, err)
	}
}

// CampaignFinished 活动结束：生成纪念徽章并给全体捐赠人发结束通知
func (s *NotifyService) CampaignFinished(campaign *model.Campaign) {
	log.Printf("Campaign %d (%s) finished, sending notifications", campaign.ID, campaign.Name)

	badgeURL := campaign.BadgeURL
	if badgeURL == "" {
		badgeURL = s.generateBadge(campaign)
	}

	emails, err := s.donationRepo.ListDonorEmailsByCampaign(campaign.ID)
	if err != nil {
		log.Printf("Failed to list donors for campaign %d: %v", campaign.ID, err)
		return
	}

	if s.emailService == nil {
		return
	}
	for _, addr := range emails {
		if err := s.emailService.SendPostEvent(addr, campaign.Name,
			campaign.CurrentAmount, campaign.GoalAmount); err != nil {
			log.Printf("Failed to send post-event email to %s: %v", addr, err)
			continue
		}
		if badgeURL != "" {
			if err := s.emailService.SendBadge(addr, campaign.Name, badgeURL); err != nil {
				log.Printf("Failed to send badge email to %s: %v", addr, err)
			}
		}
	}
}

// ExpiringSoon 临期提醒：给活动的全体捐赠人发倒计时邮件
func (s *NotifyService) ExpiringSoon(campaign *model.Campaign, daysLeft int) {
	log.Printf("Campaign %d (%s) expires in %d day(s)", campaign.ID, campaign.Name, daysLeft)

	emails, err := s.donationRepo.ListDonorEmailsByCampaign(campaign.ID)
	if err != nil {
		log.Printf("Failed to list donors for campaign %d: %v", campaign.ID, err)
		return
	}

	if s.emailService == nil {
		return
	}
	for _, addr := range emails {
		if err := s.emailService.SendExpiringSoon(addr, campaign.Name, daysLeft,
			campaign.CurrentAmount, campaign.GoalAmount); err != nil {
			log.Printf("Failed to send expiring-soon email to %s: %v", addr, err)
		}
	}
}

func (s *NotifyService) generateBadge(campaign *model.Campaign) string {
	if s.badgeGen == nil || s.ossClient == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	data, err := s.badgeGen.Generate(ctx, campaign.Name)
	if err != nil {
		log.Printf("Failed to generate badge for campaign %d: %v", campaign.ID, err)
		return ""
	}

	url, err := s.ossClient.UploadBadge(campaign.ID, data)
	if err != nil {
		log.Printf("Failed to upload badge for campaign %d: %v", campaign.ID, err)
		return ""
	}

	if err := s.campaignRepo.UpdateBadgeURL(campaign.ID, url); err != nil {
		log.Printf("Failed to save badge URL for campaign %d: %v", campaign.ID, err)
	}
	return url
}
