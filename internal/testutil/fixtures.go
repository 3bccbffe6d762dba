package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	fixtureSeq++
	return fixtureSeq
}

// TestDonor 创建测试捐赠人
func TestDonor(t *testing.T, db *gorm.DB, opts ...func(*model.Donor)) *model.Donor {
	t.Helper()

	seq := nextSeq()
	donor := &model.Donor{
		Name:               fmt.Sprintf("Test Donor %d", seq),
		Email:              fmt.Sprintf("donor_%d_%d@example.com", seq, time.Now().UnixNano()),
		SubscriptionStatus: model.DonorSubscriptionNone,
	}

	for _, opt := range opts {
		opt(donor)
	}

	if err := db.Create(donor).Error; err != nil {
		t.Fatalf("Failed to create test donor: %v", err)
	}

	return donor
}

// WithDonorEmail 设置捐赠人邮箱
func WithDonorEmail(email string) func(*model.Donor) {
	return func(d *model.Donor) {
		d.Email = email
	}
}

// WithDonorName 设置捐赠人姓名
func WithDonorName(name string) func(*model.Donor) {
	return func(d *model.Donor) {
		d.Name = name
	}
}

// WithGatewayCustomerID 设置网关客户 ID
func WithGatewayCustomerID(id string) func(*model.Donor) {
	return func(d *model.Donor) {
		d.GatewayCustomerID = &id
	}
}

// WithSubscriptionStatus 设置捐赠人订阅状态
func WithSubscriptionStatus(status string) func(*model.Donor) {
	return func(d *model.Donor) {
		d.SubscriptionStatus = status
	}
}

// TestCampaign 创建测试活动
func TestCampaign(t *testing.T, db *gorm.DB, opts ...func(*model.Campaign)) *model.Campaign {
	t.Helper()

	campaign := &model.Campaign{
		Name:       fmt.Sprintf("Test Campaign %d", nextSeq()),
		GoalAmount: 1000,
		Status:     model.CampaignStatusOpen,
	}

	for _, opt := range opts {
		opt(campaign)
	}

	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("Failed to create test campaign: %v", err)
	}

	return campaign
}

// WithGoal 设置目标金额
func WithGoal(amount float64) func(*model.Campaign) {
	return func(c *model.Campaign) {
		c.GoalAmount = amount
	}
}

// WithCampaignStatus 设置活动状态
func WithCampaignStatus(status string) func(*model.Campaign) {
	return func(c *model.Campaign) {
		c.Status = status
	}
}

// WithEndDate 设置结束日期
func WithEndDate(endDate time.Time) func(*model.Campaign) {
	return func(c *model.Campaign) {
		c.EndDate = &endDate
	}
}

// TestDonation 创建测试捐赠记录
func TestDonation(t *testing.T, db *gorm.DB, donorID int64, opts ...func(*model.Donation)) *model.Donation {
	t.Helper()

	donation := &model.Donation{
		DonorID:         donorID,
		Amount:          50,
		GatewayChargeID: fmt.Sprintf("ch_test_%d_%d", nextSeq(), time.Now().UnixNano()),
		PaymentStatus:   model.PaymentStatusCompleted,
		PaymentType:     model.PaymentTypeOneTime,
	}

	for _, opt := range opts {
		opt(donation)
	}

	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("Failed to create test donation: %v", err)
	}

	return donation
}

// WithCampaign 关联活动
func WithCampaign(campaignID int64) func(*model.Donation) {
	return func(d *model.Donation) {
		d.CampaignID = &campaignID
	}
}

// WithAmount 设置捐赠金额
func WithAmount(amount float64) func(*model.Donation) {
	return func(d *model.Donation) {
		d.Amount = amount
	}
}

// WithChargeID 设置网关扣款单号
func WithChargeID(chargeID string) func(*model.Donation) {
	return func(d *model.Donation) {
		d.GatewayChargeID = chargeID
	}
}

// WithPaymentStatus 设置支付状态
func WithPaymentStatus(status string) func(*model.Donation) {
	return func(d *model.Donation) {
		d.PaymentStatus = status
	}
}

// WithPaymentType 设置支付类型
func WithPaymentType(paymentType string) func(*model.Donation) {
	return func(d *model.Donation) {
		d.PaymentType = paymentType
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, donorID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		DonorID:               donorID,
		PlanID:                "supporter",
		GatewaySubscriptionID: fmt.Sprintf("sub_test_%d_%d", nextSeq(), time.Now().UnixNano()),
		Status:                model.SubscriptionStatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithPlan 设置订阅方案
func WithPlan(planID string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.PlanID = planID
	}
}

// WithSubStatus 设置订阅状态
func WithSubStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithGatewaySubID 设置网关订阅 ID
func WithGatewaySubID(id string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.GatewaySubscriptionID = id
	}
}

// WithSubCampaign 关联活动
func WithSubCampaign(campaignID int64) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.CampaignID = &campaignID
	}
}
