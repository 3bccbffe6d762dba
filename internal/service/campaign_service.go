package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/lock"
	"github.com/projectreach/reach_go_server/internal/pkg/pubsub"
	"github.com/projectreach/reach_go_server/internal/repository"
)

var (
	ErrCampaignNotFound  = errors.New("活动不存在")
	ErrCampaignFinalized = errors.New("活动已进入终态，状态不可变更")
	ErrInvalidStatus     = errors.New("不支持的活动状态变更")
)

// ProgressPublisher 进度广播抽象，生产环境为 Redis 发布者
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, msg *pubsub.ProgressMessage) error
}

// Notifier 活动通知抽象，实现见 notifier.go
type Notifier interface {
	ThankYou(donor *model.Donor, campaign *model.Campaign, amount float64)
	CampaignFinished(campaign *model.Campaign)
	ExpiringSoon(campaign *model.Campaign, daysLeft int)
}

type CampaignService struct {
	campaignRepo *repository.CampaignRepository
	donationRepo *repository.DonationRepository
	locks        *lock.KeyedMutex
	publisher    ProgressPublisher
	notifier     Notifier
}

func NewCampaignService(
	campaignRepo *repository.CampaignRepository,
	donationRepo *repository.DonationRepository,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		locks:        lock.NewKeyedMutex(),
	}
}

// SetPublisher 注入进度广播器（可选）
func (s *CampaignService) SetPublisher(publisher ProgressPublisher) {
	s.publisher = publisher
}

// SetNotifier 注入活动通知器（可选）
func (s *CampaignService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *CampaignService) Create(req *dto.CreateCampaignRequest) (*model.Campaign, error) {
	campaign := &model.Campaign{
		Name:        req.Name,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		BadgeURL:    req.BadgeURL,
		Status:      model.CampaignStatusOpen,
	}

	if req.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, errors.New("结束日期格式不正确")
		}
		campaign.EndDate = &endDate
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Get(id int64) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) List(offset, limit int) ([]*model.Campaign, int64, error) {
	return s.campaignRepo.List(offset, limit)
}

func (s *CampaignService) Update(id int64, req *dto.UpdateCampaignRequest) (*model.Campaign, error) {
	campaign, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.GoalAmount != nil {
		if *req.GoalAmount <= 0 {
			return nil, errors.New("目标金额必须大于 0")
		}
		fields["goal_amount"] = *req.GoalAmount
	}
	if req.BadgeURL != nil {
		fields["badge_url"] = *req.BadgeURL
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return nil, errors.New("结束日期格式不正确")
		}
		fields["end_date"] = endDate
	}

	// 状态只允许人工从 open 关到 closed，终态不可回退
	if req.Status != nil && *req.Status != campaign.Status {
		if campaign.Status != model.CampaignStatusOpen {
			return nil, ErrCampaignFinalized
		}
		if *req.Status != model.CampaignStatusClosed {
			return nil, ErrInvalidStatus
		}
		fields["status"] = model.CampaignStatusClosed
	}

	if len(fields) == 0 {
		return campaign, nil
	}

	if err := s.campaignRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *CampaignService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.campaignRepo.Delete(id)
}

// Progress 活动进度视图
func (s *CampaignService) Progress(id int64) (*dto.CampaignProgress, error) {
	campaign, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	progress := &dto.CampaignProgress{
		CampaignID:    campaign.ID,
		Name:          campaign.Name,
		CurrentAmount: campaign.CurrentAmount,
		GoalAmount:    campaign.GoalAmount,
		Status:        campaign.Status,
	}
	if campaign.GoalAmount > 0 {
		progress.ProgressPercentage = campaign.CurrentAmount / campaign.GoalAmount * 100
	}
	return progress, nil
}

// Donations 活动的捐赠记录列表
func (s *CampaignService) Donations(id int64) (*dto.CampaignDonations, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	donations, err := s.donationRepo.ListByCampaignID(id)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DonationListItem, 0, len(donations))
	var total float64
	for _, d := range donations {
		item := &dto.DonationListItem{
			ID:            d.ID,
			CampaignID:    d.CampaignID,
			DonorID:       d.DonorID,
			Amount:        d.Amount,
			PaymentStatus: d.PaymentStatus,
			PaymentType:   d.PaymentType,
			CreatedAt:     d.CreatedAt.Format(time.RFC3339),
		}
		if d.Donor != nil {
			item.DonorName = d.Donor.Name
		}
		if d.PaymentStatus == model.PaymentStatusCompleted {
			total += d.Amount
		}
		items = append(items, item)
	}

	return &dto.CampaignDonations{
		TotalDonations: len(items),
		TotalAmount:    total,
		Items:          items,
	}, nil
}

// RecomputeAggregate 从捐赠账本整体重算活动筹款额并推进生命周期。
// 同一活动的重算全程持有活动级锁，消除并发下的读改写竞态
func (s *CampaignService) RecomputeAggregate(ctx context.Context, campaignID int64) (float64, error) {
	unlock := s.locks.Lock(campaignID)
	defer unlock()

	total, err := s.campaignRepo.RecomputeCurrentAmount(campaignID)
	if err != nil {
		return 0, err
	}

	campaign, err := s.Get(campaignID)
	if err != nil {
		return 0, err
	}

	if campaign.Status == model.CampaignStatusOpen && shouldFinish(campaign, total, time.Now()) {
		moved, err := s.campaignRepo.TransitionStatus(campaignID,
			model.CampaignStatusOpen, model.CampaignStatusFinished)
		if err != nil {
			return 0, err
		}
		if moved {
			campaign.Status = model.CampaignStatusFinished
			log.Printf("Campaign %d finished, raised %.2f of %.2f", campaignID, total, campaign.GoalAmount)
			if s.notifier != nil {
				go s.notifier.CampaignFinished(campaign)
			}
		}
	}

	s.publishProgress(ctx, campaign, total)
	return total, nil
}

// shouldFinish 生命周期判定：达标优先，其次到期
func shouldFinish(campaign *model.Campaign, total float64, now time.Time) bool {
	if campaign.GoalAmount > 0 && total >= campaign.GoalAmount {
		return true
	}
	if campaign.EndDate != nil && now.After(*campaign.EndDate) {
		return true
	}
	return false
}

// IsExpiringSoon 距到期不足 days 天且尚未到期
func IsExpiringSoon(campaign *model.Campaign, now time.Time, days int) bool {
	if campaign.Status != model.CampaignStatusOpen || campaign.EndDate == nil {
		return false
	}
	remaining := campaign.EndDate.Sub(now)
	return remaining > 0 && remaining <= time.Duration(days)*24*time.Hour
}

// Sweep 周期巡检：全部进行中活动重算并推进生命周期，临期活动发出提醒
func (s *CampaignService) Sweep(ctx context.Context, expiringSoonDays int) error {
	campaigns, err := s.campaignRepo.ListOpen()
	if err != nil {
		return err
	}

	now := time.Now()
	for _, campaign := range campaigns {
		total, err := s.RecomputeAggregate(ctx, campaign.ID)
		if err != nil {
			log.Printf("Sweep: failed to recompute campaign %d: %v", campaign.ID, err)
			continue
		}
		// 本轮达标或到期的活动已被重算结束，不再提醒
		if shouldFinish(campaign, total, now) {
			continue
		}
		if IsExpiringSoon(campaign, now, expiringSoonDays) {
			daysLeft := int(campaign.EndDate.Sub(now).Hours() / 24)
			log.Printf("Campaign %d expiring soon: %d day(s) left", campaign.ID, daysLeft)
			if s.notifier != nil {
				s.notifier.ExpiringSoon(campaign, daysLeft)
			}
		}
	}
	return nil
}

func (s *CampaignService) publishProgress(ctx context.Context, campaign *model.Campaign, total float64) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
		CampaignID:    campaign.ID,
		Name:          campaign.Name,
		CurrentAmount: total,
		GoalAmount:    campaign.GoalAmount,
		Status:        campaign.Status,
	})
	if err != nil {
		log.Printf("Failed to publish campaign progress: %v", err)
	}
}
