package model

import (
	"time"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	PaymentTypeOneTime      = "one_time"
	PaymentTypeSubscription = "subscription"
)

type Donation struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	// CampaignID 为空表示与活动无关的捐款（订阅扣款未绑定活动时）
	CampaignID *int64  `gorm:"index" json:"campaign_id,omitempty"`
	DonorID    int64   `gorm:"not null;index" json:"donor_id"`
	Amount     float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	// GatewayChargeID 是网关侧的自然幂等键（charge / payment intent / invoice id）
	GatewayChargeID string     `gorm:"size:100;uniqueIndex;not null" json:"gateway_charge_id"`
	PaymentStatus   string     `gorm:"size:20;default:pending;index" json:"payment_status"` // pending, completed, failed
	PaymentType     string     `gorm:"size:20;default:one_time" json:"payment_type"`        // one_time, subscription
	SubscriptionID  *int64     `gorm:"index" json:"subscription_id,omitempty"`
	Donor           *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func (Donation) TableName() string {
	return "donations"
}
