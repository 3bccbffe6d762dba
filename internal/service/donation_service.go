package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
	"github.com/projectreach/reach_go_server/internal/repository"
)

var (
	ErrPaymentDeclined    = errors.New("支付被拒绝")
	ErrGatewayUnavailable = errors.New("支付网关不可用")
	ErrCampaignNotOpen    = errors.New("活动未开放捐赠")
	ErrDonationNotFound   = errors.New("捐赠记录不存在")
)

// SettlementError 扣款已在网关成功，但本地记账未完成。
// ChargeID 必须透出给调用方用于人工对账
type SettlementError struct {
	ChargeID string
	Err      error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("扣款成功但记账未完成 (charge_id=%s): %v", e.ChargeID, e.Err)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

type DonationService struct {
	donationRepo    *repository.DonationRepository
	donorService    *DonorService
	campaignService *CampaignService
	gw              gateway.Gateway
}

func NewDonationService(
	donationRepo *repository.DonationRepository,
	donorService *DonorService,
	campaignService *CampaignService,
	gw gateway.Gateway,
) *DonationService {
	return &DonationService{
		donationRepo:    donationRepo,
		donorService:    donorService,
		campaignService: campaignService,
		gw:              gw,
	}
}

// Settle 同步结算：扣款 → 捐赠人 → 落账 → 重算活动 → 致谢。
// 扣款前不写任何行；扣款后任何一步失败都以 SettlementError 上抛
func (s *DonationService) Settle(ctx context.Context, req *dto.DonateRequest) (*dto.DonateResponse, error) {
	campaign, err := s.campaignService.Get(req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusOpen {
		return nil, ErrCampaignNotOpen
	}

	currency := req.Charge.Currency
	if currency == "" {
		currency = "usd"
	}
	description := req.Charge.Description
	if description == "" {
		description = fmt.Sprintf("Donation to %s", campaign.Name)
	}

	charge, err := s.gw.CreateCharge(ctx, req.Charge.Amount, currency, description, req.Charge.Source)
	if err != nil {
		return nil, translateGatewayError(err)
	}

	donor, err := s.donorService.Resolve(req.Email, req.Name)
	if err != nil {
		return nil, &SettlementError{ChargeID: charge.ID, Err: err}
	}

	donation := &model.Donation{
		CampaignID:      &campaign.ID,
		DonorID:         donor.ID,
		Amount:          req.Amount,
		GatewayChargeID: charge.ID,
		PaymentStatus:   model.PaymentStatusCompleted,
		PaymentType:     model.PaymentTypeOneTime,
	}
	now := time.Now()
	donation.CompletedAt = &now

	if err := s.donationRepo.Create(donation); err != nil {
		// 网关重试会带着同一扣款单号进来，命中唯一键说明这笔账已落过
		if existing, getErr := s.donationRepo.GetByChargeID(charge.ID); getErr == nil {
			donation = existing
		} else {
			return nil, &SettlementError{ChargeID: charge.ID, Err: err}
		}
	}

	if _, err := s.campaignService.RecomputeAggregate(ctx, campaign.ID); err != nil {
		return nil, &SettlementError{ChargeID: charge.ID, Err: err}
	}

	if s.campaignService.notifier != nil {
		go s.campaignService.notifier.ThankYou(donor, campaign, req.Amount)
	}

	return &dto.DonateResponse{
		DonationID:    donation.ID,
		DonorID:       donor.ID,
		ChargeID:      charge.ID,
		Amount:        donation.Amount,
		PaymentStatus: donation.PaymentStatus,
	}, nil
}

// CreateIntent 异步结算：先落 pending 账，扣款确认由 webhook 驱动
func (s *DonationService) CreateIntent(ctx context.Context, req *dto.CreateIntentRequest) (*dto.CreateIntentResponse, error) {
	campaign, err := s.campaignService.Get(req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusOpen {
		return nil, ErrCampaignNotOpen
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	donor, err := s.donorService.Resolve(req.Email, req.Name)
	if err != nil {
		return nil, err
	}

	intent, err := s.gw.CreatePaymentIntent(ctx, req.Amount, currency,
		fmt.Sprintf("Donation to %s", campaign.Name))
	if err != nil {
		return nil, translateGatewayError(err)
	}

	donation := &model.Donation{
		CampaignID:      &campaign.ID,
		DonorID:         donor.ID,
		Amount:          float64(req.Amount) / 100,
		GatewayChargeID: intent.ID,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentType:     model.PaymentTypeOneTime,
	}
	if err := s.donationRepo.Create(donation); err != nil {
		log.Printf("Failed to record pending donation for intent %s: %v", intent.ID, err)
		return nil, err
	}

	return &dto.CreateIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		DonorID:         donor.ID,
	}, nil
}

func (s *DonationService) Get(id int64) (*model.Donation, error) {
	donation, err := s.donationRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

func (s *DonationService) ListByDonor(donorID int64) ([]*model.Donation, error) {
	return s.donationRepo.ListByDonorID(donorID)
}

// translateGatewayError 网关错误归并到领域错误：拒付保留原因，其余视为不可用
func translateGatewayError(err error) error {
	var declined *gateway.DeclineError
	if errors.As(err, &declined) {
		return fmt.Errorf("%w: %s", ErrPaymentDeclined, declined.Msg)
	}
	return ErrGatewayUnavailable
}
