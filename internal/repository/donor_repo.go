package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projectreach/reach_go_server/internal/model"
)

type DonorRepository struct {
	db *gorm.DB
}

func NewDonorRepository(db *gorm.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

func (r *DonorRepository) Create(donor *model.Donor) error {
	return r.db.Create(donor).Error
}

// CreateIfAbsent 按邮箱唯一键插入，已存在则不报错；
// 无论插入与否都返回数据库中该邮箱对应的行
func (r *DonorRepository) CreateIfAbsent(donor *model.Donor) (*model.Donor, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(donor).Error
	if err != nil {
		return nil, err
	}

	return r.GetByEmail(donor.Email)
}

func (r *DonorRepository) GetByID(id int64) (*model.Donor, error) {
	var donor model.Donor
	err := r.db.Where("id = ?", id).First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *DonorRepository) GetByEmail(email string) (*model.Donor, error) {
	var donor model.Donor
	err := r.db.Where("email = ?", email).First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *DonorRepository) GetByGatewayCustomerID(customerID string) (*model.Donor, error) {
	var donor model.Donor
	err := r.db.Where("gateway_customer_id = ?", customerID).First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *DonorRepository) List(offset, limit int) ([]*model.Donor, int64, error) {
	var donors []*model.Donor
	var total int64

	if err := r.db.Model(&model.Donor{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&donors).Error
	if err != nil {
		return nil, 0, err
	}

	return donors, total, nil
}

func (r *DonorRepository) Update(donor *model.Donor) error {
	return r.db.Save(donor).Error
}

func (r *DonorRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Donor{}).Where("id = ?", id).Updates(fields).Error
}

func (r *DonorRepository) UpdateSubscriptionStatus(id int64, status string) error {
	return r.db.Model(&model.Donor{}).Where("id = ?", id).
		Update("subscription_status", status).Error
}

func (r *DonorRepository) UpdateGatewayCustomerID(id int64, customerID string) error {
	return r.db.Model(&model.Donor{}).Where("id = ?", id).
		Update("gateway_customer_id", customerID).Error
}
