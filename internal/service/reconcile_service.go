package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
	"github.com/projectreach/reach_go_server/internal/pkg/queue"
	"github.com/projectreach/reach_go_server/internal/repository"
)

// ReconcileService 消费网关 webhook 事件，把账本与网关状态对齐。
// 任意事件重放都必须是空操作
type ReconcileService struct {
	eventRepo       *repository.WebhookEventRepository
	donationRepo    *repository.DonationRepository
	subRepo         *repository.SubscriptionRepository
	donorRepo       *repository.DonorRepository
	donorService    *DonorService
	campaignService *CampaignService
}

func NewReconcileService(
	eventRepo *repository.WebhookEventRepository,
	donationRepo *repository.DonationRepository,
	subRepo *repository.SubscriptionRepository,
	donorRepo *repository.DonorRepository,
	donorService *DonorService,
	campaignService *CampaignService,
) *ReconcileService {
	return &ReconcileService{
		eventRepo:       eventRepo,
		donationRepo:    donationRepo,
		subRepo:         subRepo,
		donorRepo:       donorRepo,
		donorService:    donorService,
		campaignService: campaignService,
	}
}

type chargePayload struct {
	ID string `json:"id"`
}

type invoicePayload struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
	AmountPaid   int64  `json:"amount_paid"`
	Customer     string `json:"customer"`
}

type subscriptionPayload struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	Customer           string `json:"customer"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
}

// HandleEvent 处理单个 webhook 事件。
// 先按事件 ID 去重，再按类型分派；无法关联本地记录的事件记日志后跳过
func (s *ReconcileService) HandleEvent(ctx context.Context, msg *queue.EventMessage) error {
	if err := s.eventRepo.MarkProcessed(msg.EventID, msg.Type); err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			log.Printf("Skipping duplicate webhook event %s (%s)", msg.EventID, msg.Type)
			return nil
		}
		return fmt.Errorf("failed to register webhook event %s: %w", msg.EventID, err)
	}

	switch msg.Type {
	case "charge.succeeded", "payment_intent.succeeded":
		return s.handleChargeSucceeded(ctx, msg)
	case "invoice.payment_succeeded":
		return s.handleInvoicePaid(ctx, msg)
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		return s.handleSubscriptionChanged(msg)
	default:
		log.Printf("Ignoring unhandled webhook event type %s", msg.Type)
		return nil
	}
}

// handleChargeSucceeded 确认异步扣款：pending 账转 completed 后重算活动
func (s *ReconcileService) handleChargeSucceeded(ctx context.Context, msg *queue.EventMessage) error {
	var payload chargePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse charge payload for event %s: %w", msg.EventID, err)
	}

	donation, err := s.donationRepo.GetByChargeID(payload.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不是本系统发起的扣款，跳过
			log.Printf("Orphan charge %s in event %s, skipping", payload.ID, msg.EventID)
			return nil
		}
		return err
	}

	marked, err := s.donationRepo.MarkCompleted(payload.ID)
	if err != nil {
		return err
	}
	if !marked {
		log.Printf("Charge %s already settled, event %s is a no-op", payload.ID, msg.EventID)
		return nil
	}

	if donation.CampaignID != nil {
		if _, err := s.campaignService.RecomputeAggregate(ctx, *donation.CampaignID); err != nil {
			return err
		}
	}
	return nil
}

// handleInvoicePaid 订阅周期扣款成功：以发票号为幂等键落一条订阅型捐赠
func (s *ReconcileService) handleInvoicePaid(ctx context.Context, msg *queue.EventMessage) error {
	var payload invoicePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse invoice payload for event %s: %w", msg.EventID, err)
	}

	sub, err := s.subRepo.GetByGatewayID(payload.Subscription)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Orphan invoice %s for unknown subscription %s, skipping",
				payload.ID, payload.Subscription)
			return nil
		}
		return err
	}

	now := time.Now()
	donation := &model.Donation{
		CampaignID:      sub.CampaignID,
		DonorID:         sub.DonorID,
		Amount:          float64(payload.AmountPaid) / 100,
		GatewayChargeID: payload.ID,
		PaymentStatus:   model.PaymentStatusCompleted,
		PaymentType:     model.PaymentTypeSubscription,
		SubscriptionID:  &sub.ID,
		CompletedAt:     &now,
	}
	if err := s.donationRepo.Create(donation); err != nil {
		// 同一发票号已落过账，视为重放
		if _, getErr := s.donationRepo.GetByChargeID(payload.ID); getErr == nil {
			log.Printf("Invoice %s already recorded, event %s is a no-op", payload.ID, msg.EventID)
			return nil
		}
		return err
	}

	if sub.CampaignID != nil {
		if _, err := s.campaignService.RecomputeAggregate(ctx, *sub.CampaignID); err != nil {
			return err
		}
	}
	return nil
}

// handleSubscriptionChanged 以网关事件为准整体覆盖本地订阅行，再重算捐赠人状态
func (s *ReconcileService) handleSubscriptionChanged(msg *queue.EventMessage) error {
	var payload subscriptionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse subscription payload for event %s: %w", msg.EventID, err)
	}

	status := gateway.NormalizeStatus(payload.Status)
	if msg.Type == "customer.subscription.deleted" {
		status = model.SubscriptionStatusCancelled
	}

	sub, err := s.subRepo.GetByGatewayID(payload.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// 本地没有这条订阅：created 事件尝试按网关客户补建，其余跳过
		if msg.Type != "customer.subscription.created" {
			log.Printf("Orphan subscription %s in event %s, skipping", payload.ID, msg.EventID)
			return nil
		}
		donor, donorErr := s.donorRepo.GetByGatewayCustomerID(payload.Customer)
		if donorErr != nil {
			log.Printf("Orphan subscription %s for unknown customer %s, skipping",
				payload.ID, payload.Customer)
			return nil
		}
		sub = &model.Subscription{
			DonorID:               donor.ID,
			GatewaySubscriptionID: payload.ID,
			Status:                status,
		}
		applyPeriod(sub, &payload)
		if err := s.subRepo.Create(sub); err != nil {
			return err
		}
		_, err = s.donorService.RecomputeSubscriptionStatus(donor.ID)
		return err
	}

	fields := map[string]interface{}{
		"status":               status,
		"cancel_at_period_end": payload.CancelAtPeriodEnd,
	}
	if payload.CurrentPeriodStart > 0 {
		fields["current_period_start"] = time.Unix(payload.CurrentPeriodStart, 0)
	}
	if payload.CurrentPeriodEnd > 0 {
		fields["current_period_end"] = time.Unix(payload.CurrentPeriodEnd, 0)
	}
	if err := s.subRepo.UpdateFields(sub.ID, fields); err != nil {
		return err
	}

	_, err = s.donorService.RecomputeSubscriptionStatus(sub.DonorID)
	return err
}

func applyPeriod(sub *model.Subscription, payload *subscriptionPayload) {
	if payload.CurrentPeriodStart > 0 {
		start := time.Unix(payload.CurrentPeriodStart, 0)
		sub.CurrentPeriodStart = &start
	}
	if payload.CurrentPeriodEnd > 0 {
		end := time.Unix(payload.CurrentPeriodEnd, 0)
		sub.CurrentPeriodEnd = &end
	}
	sub.CancelAtPeriodEnd = payload.CancelAtPeriodEnd
}
