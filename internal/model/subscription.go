package model

import (
	"time"
)

// 订阅状态镜像网关侧状态，webhook 到达时整体替换而不是增量修改
const (
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusActive     = "active"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusCancelled  = "cancelled"
)

type Subscription struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	DonorID               int64      `gorm:"not null;index" json:"donor_id"`
	CampaignID            *int64     `gorm:"index" json:"campaign_id,omitempty"`
	PlanID                string     `gorm:"size:50;not null" json:"plan_id"` // supporter, advocate, champion
	GatewaySubscriptionID string     `gorm:"size:100;uniqueIndex;not null" json:"gateway_subscription_id"`
	Status                string     `gorm:"size:20;default:incomplete;index" json:"status"`
	CurrentPeriodStart    *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd      *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd     bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
