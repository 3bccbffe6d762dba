package model

import (
	"time"
)

// 捐赠者订阅状态，由该捐赠者全部订阅记录整体推导
const (
	DonorSubscriptionNone    = "none"
	DonorSubscriptionActive  = "active"
	DonorSubscriptionPastDue = "past_due"
)

type Donor struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"size:100" json:"name"`
	Email              string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	GatewayCustomerID  *string   `gorm:"column:gateway_customer_id;size:100" json:"-"`
	SubscriptionStatus string    `gorm:"size:20;default:none" json:"subscription_status"` // none, active, past_due
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Donor) TableName() string {
	return "donors"
}
