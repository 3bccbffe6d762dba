package repository

import (
	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByGatewayID(gatewayID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("gateway_subscription_id = ?", gatewayID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListByDonorID(donorID int64) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) ListActive() ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("status = ?", model.SubscriptionStatusActive).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("status = ?", model.SubscriptionStatusActive).
		Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Updates(fields).Error
}
