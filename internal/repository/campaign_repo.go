package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projectreach/reach_go_server/internal/model"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *model.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *CampaignRepository) GetByID(id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.db.Where("id = ?", id).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepository) List(offset, limit int) ([]*model.Campaign, int64, error) {
	var campaigns []*model.Campaign
	var total int64

	if err := r.db.Model(&model.Campaign{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) ListOpen() ([]*model.Campaign, error) {
	var campaigns []*model.Campaign
	err := r.db.Where("status = ?", model.CampaignStatusOpen).Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *CampaignRepository) Update(campaign *model.Campaign) error {
	return r.db.Save(campaign).Error
}

func (r *CampaignRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Campaign{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CampaignRepository) Delete(id int64) error {
	return r.db.Delete(&model.Campaign{}, id).Error
}

// TransitionStatus 条件状态迁移，只有当前状态等于 from 时才写入 to。
// 返回是否真的发生了迁移，终态活动重复迁移返回 false
func (r *CampaignRepository) TransitionStatus(id int64, from, to string) (bool, error) {
	result := r.db.Model(&model.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RecomputeCurrentAmount 从捐赠账本重算活动当前筹款额，
// current_amount 只能通过这里写入，绝不做增量累加。
// 事务内先对活动行加 FOR UPDATE 锁：server、worker、sweeper 三个进程
// 都会触发重算，同一活动的求和-写回必须由数据库串行化
func (r *CampaignRepository) RecomputeCurrentAmount(id int64) (float64, error) {
	var total float64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		locked := tx
		// sqlite 不支持 FOR UPDATE，测试进程内靠服务层的活动级锁串行
		if tx.Dialector.Name() != "sqlite" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var campaign model.Campaign
		if err := locked.Where("id = ?", id).First(&campaign).Error; err != nil {
			return err
		}

		row := tx.Model(&model.Donation{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("campaign_id = ? AND payment_status = ?", id, model.PaymentStatusCompleted).
			Row()
		if err := row.Scan(&total); err != nil {
			return err
		}

		return tx.Model(&model.Campaign{}).Where("id = ?", id).
			Update("current_amount", total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CampaignRepository) UpdateBadgeURL(id int64, badgeURL string) error {
	return r.db.Model(&model.Campaign{}).Where("id = ?", id).
		Update("badge_url", badgeURL).Error
}

func (r *CampaignRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Campaign{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
