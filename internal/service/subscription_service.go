package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
	"github.com/projectreach/reach_go_server/internal/repository"
)

var (
	ErrPlanNotFound         = errors.New("订阅方案不存在")
	ErrSubscriptionNotFound = errors.New("订阅不存在")
)

type SubscriptionService struct {
	subRepo      *repository.SubscriptionRepository
	donorRepo    *repository.DonorRepository
	donorService *DonorService
	gw           gateway.Gateway
	cfg          *config.Config
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	donorRepo *repository.DonorRepository,
	donorService *DonorService,
	gw gateway.Gateway,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:      subRepo,
		donorRepo:    donorRepo,
		donorService: donorService,
		gw:           gw,
		cfg:          cfg,
	}
}

// Plans 可选订阅方案，按价格升序
func (s *SubscriptionService) Plans() []*dto.PlanInfo {
	plans := make([]*dto.PlanInfo, 0, len(s.cfg.Plans))
	for id, plan := range s.cfg.Plans {
		plans = append(plans, &dto.PlanInfo{
			ID:         id,
			Name:       plan.Name,
			PriceCents: plan.PriceCents,
			Currency:   plan.Currency,
			Interval:   plan.Interval,
		})
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].PriceCents < plans[j].PriceCents
	})
	return plans
}

// Create 创建月度订阅：解析捐赠人 → 网关客户 → 网关订阅 → 落库
func (s *SubscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.CreateSubscriptionResponse, error) {
	plan, ok := s.cfg.Plans[req.PlanID]
	if !ok {
		return nil, ErrPlanNotFound
	}

	donor, err := s.donorService.Resolve(req.Email, req.Name)
	if err != nil {
		return nil, err
	}

	customerID := ""
	if donor.GatewayCustomerID != nil {
		customerID = *donor.GatewayCustomerID
	} else {
		customer, err := s.gw.GetOrCreateCustomer(ctx, donor.Email, donor.Name)
		if err != nil {
			return nil, translateGatewayError(err)
		}
		customerID = customer.ID
		if err := s.donorRepo.UpdateGatewayCustomerID(donor.ID, customerID); err != nil {
			return nil, err
		}
	}

	gwSub, err := s.gw.CreateSubscription(ctx, customerID, plan)
	if err != nil {
		return nil, translateGatewayError(err)
	}

	sub := &model.Subscription{
		DonorID:               donor.ID,
		CampaignID:            req.CampaignID,
		PlanID:                req.PlanID,
		GatewaySubscriptionID: gwSub.ID,
		Status:                gwSub.Status,
		CancelAtPeriodEnd:     gwSub.CancelAtPeriodEnd,
	}
	if !gwSub.CurrentPeriodStart.IsZero() {
		sub.CurrentPeriodStart = &gwSub.CurrentPeriodStart
	}
	if !gwSub.CurrentPeriodEnd.IsZero() {
		sub.CurrentPeriodEnd = &gwSub.CurrentPeriodEnd
	}

	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}

	if _, err := s.donorService.RecomputeSubscriptionStatus(donor.ID); err != nil {
		return nil, err
	}

	return &dto.CreateSubscriptionResponse{
		SubscriptionID:        sub.ID,
		GatewaySubscriptionID: gwSub.ID,
		ClientSecret:          gwSub.ClientSecret,
		Status:                sub.Status,
	}, nil
}

// Cancel 在当前计费周期末取消订阅
func (s *SubscriptionService) Cancel(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.get(id)
	if err != nil {
		return nil, err
	}

	gwSub, err := s.gw.CancelSubscription(ctx, sub.GatewaySubscriptionID)
	if err != nil {
		return nil, translateGatewayError(err)
	}

	err = s.subRepo.UpdateFields(sub.ID, map[string]interface{}{
		"status":               gwSub.Status,
		"cancel_at_period_end": gwSub.CancelAtPeriodEnd,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.donorService.RecomputeSubscriptionStatus(sub.DonorID); err != nil {
		return nil, err
	}

	return s.get(id)
}

// Status 查询订阅状态，先以网关为准刷新本地行
func (s *SubscriptionService) Status(ctx context.Context, id int64) (*dto.SubscriptionStatusResponse, error) {
	sub, err := s.get(id)
	if err != nil {
		return nil, err
	}

	gwSub, err := s.gw.GetSubscription(ctx, sub.GatewaySubscriptionID)
	if err == nil && gwSub.Status != sub.Status {
		if updErr := s.subRepo.UpdateFields(sub.ID, map[string]interface{}{
			"status":               gwSub.Status,
			"cancel_at_period_end": gwSub.CancelAtPeriodEnd,
		}); updErr == nil {
			sub.Status = gwSub.Status
			sub.CancelAtPeriodEnd = gwSub.CancelAtPeriodEnd
			s.donorService.RecomputeSubscriptionStatus(sub.DonorID)
		}
	}

	resp := &dto.SubscriptionStatusResponse{
		GatewaySubscriptionID: sub.GatewaySubscriptionID,
		PlanID:                sub.PlanID,
		Status:                sub.Status,
		CancelAtPeriodEnd:     sub.CancelAtPeriodEnd,
	}
	if sub.CurrentPeriodStart != nil {
		resp.CurrentPeriodStart = sub.CurrentPeriodStart.Format(time.RFC3339)
	}
	if sub.CurrentPeriodEnd != nil {
		resp.CurrentPeriodEnd = sub.CurrentPeriodEnd.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *SubscriptionService) ListByDonor(donorID int64) ([]*model.Subscription, error) {
	return s.subRepo.ListByDonorID(donorID)
}

func (s *SubscriptionService) ListActive() ([]*model.Subscription, error) {
	return s.subRepo.ListActive()
}

func (s *SubscriptionService) get(id int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}
