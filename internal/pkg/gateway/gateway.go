package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/projectreach/reach_go_server/config"
)

// ErrUnavailable 支付网关不可用（超时、网络错误、5xx）
var ErrUnavailable = errors.New("支付网关不可用")

// DeclineError 支付被拒绝
type DeclineError struct {
	Code string
	Msg  string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("支付被拒绝: %s (%s)", e.Msg, e.Code)
}

// Charge 即时扣款结果
type Charge struct {
	ID     string
	Status string
}

// PaymentIntent 异步支付意向
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Customer 网关侧客户
type Customer struct {
	ID    string
	Email string
}

// Subscription 网关侧订阅
type Subscription struct {
	ID                 string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	ClientSecret       string
}

// Gateway 支付网关抽象，便于测试时替换
type Gateway interface {
	// CreateCharge 发起即时扣款
	CreateCharge(ctx context.Context, amountCents int64, currency, description, source string) (*Charge, error)
	// CreatePaymentIntent 创建支付意向，由前端完成确认
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (*PaymentIntent, error)
	// GetOrCreateCustomer 按邮箱查找客户，不存在则创建
	GetOrCreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	// CreateSubscription 为客户创建月度订阅
	CreateSubscription(ctx context.Context, customerID string, plan config.Plan) (*Subscription, error)
	// CancelSubscription 在当前计费周期末取消订阅
	CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	// GetSubscription 查询订阅当前状态
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}
