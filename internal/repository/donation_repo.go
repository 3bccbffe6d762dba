package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(donation *model.Donation) error {
	return r.db.Create(donation).Error
}

func (r *DonationRepository) GetByID(id int64) (*model.Donation, error) {
	var donation model.Donation
	err := r.db.Where("id = ?", id).First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// GetByChargeID 按网关扣款单号查询，单号是捐赠记录的天然幂等键
func (r *DonationRepository) GetByChargeID(chargeID string) (*model.Donation, error) {
	var donation model.Donation
	err := r.db.Where("gateway_charge_id = ?", chargeID).First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// MarkCompleted 将待支付记录标记为已完成。
// 条件更新，已完成的记录重复标记返回 false
func (r *DonationRepository) MarkCompleted(chargeID string) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.Donation{}).
		Where("gateway_charge_id = ? AND payment_status = ?", chargeID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusCompleted,
			"completed_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DonationRepository) MarkFailed(chargeID string) error {
	return r.db.Model(&model.Donation{}).
		Where("gateway_charge_id = ?", chargeID).
		Update("payment_status", model.PaymentStatusFailed).Error
}

func (r *DonationRepository) ListByCampaignID(campaignID int64) ([]*model.Donation, error) {
	var donations []*model.Donation
	err := r.db.Preload("Donor").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepository) ListByDonorID(donorID int64) ([]*model.Donation, error) {
	var donations []*model.Donation
	err := r.db.Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// SumCompletedByCampaign 统计活动的已完成捐赠总额
func (r *DonationRepository) SumCompletedByCampaign(campaignID int64) (float64, error) {
	var total float64
	err := r.db.Model(&model.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("campaign_id = ? AND payment_status = ?", campaignID, model.PaymentStatusCompleted).
		Row().Scan(&total)
	return total, err
}

// SumCompletedByDonor 统计捐赠人的已完成捐赠总额
func (r *DonationRepository) SumCompletedByDonor(donorID int64) (float64, error) {
	var total float64
	err := r.db.Model(&model.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("donor_id = ? AND payment_status = ?", donorID, model.PaymentStatusCompleted).
		Row().Scan(&total)
	return total, err
}

// TotalCompleted 全平台已完成捐赠总额与笔数
func (r *DonationRepository) TotalCompleted() (float64, int64, error) {
	var total float64
	var count int64

	err := r.db.Model(&model.Donation{}).
		Where("payment_status = ?", model.PaymentStatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.Model(&model.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_status = ?", model.PaymentStatusCompleted).
		Row().Scan(&total)
	if err != nil {
		return 0, 0, err
	}

	return total, count, nil
}

func (r *DonationRepository) CountByDonorID(donorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Donation{}).
		Where("donor_id = ? AND payment_status = ?", donorID, model.PaymentStatusCompleted).
		Count(&count).Error
	return count, err
}

// ListDonorEmailsByCampaign 查询活动的捐赠人邮箱去重列表，用于结束通知
func (r *DonationRepository) ListDonorEmailsByCampaign(campaignID int64) ([]string, error) {
	var emails []string
	err := r.db.Model(&model.Donation{}).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Where("donations.campaign_id = ? AND donations.payment_status = ?",
			campaignID, model.PaymentStatusCompleted).
		Distinct().
		Pluck("donors.email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
