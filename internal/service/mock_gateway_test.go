package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
)

// mockGateway 测试用网关桩，默认全部成功
type mockGateway struct {
	seq int64

	chargeErr   error
	intentErr   error
	customerErr error
	subErr      error

	subStatus string // CreateSubscription 返回的状态，空则为 incomplete

	chargeCalls   int32
	lastAmount    int64
	lastCurrency  string
	lastSource    string
	cancelledSubs []string
}

func (m *mockGateway) nextID(prefix string) string {
	return fmt.Sprintf("%s_mock_%d", prefix, atomic.AddInt64(&m.seq, 1))
}

func (m *mockGateway) CreateCharge(ctx context.Context, amountCents int64, currency, description, source string) (*gateway.Charge, error) {
	atomic.AddInt32(&m.chargeCalls, 1)
	if m.chargeErr != nil {
		return nil, m.chargeErr
	}
	m.lastAmount = amountCents
	m.lastCurrency = currency
	m.lastSource = source
	return &gateway.Charge{ID: m.nextID("ch"), Status: "succeeded"}, nil
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (*gateway.PaymentIntent, error) {
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	id := m.nextID("pi")
	return &gateway.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
	}, nil
}

func (m *mockGateway) GetOrCreateCustomer(ctx context.Context, email, name string) (*gateway.Customer, error) {
	if m.customerErr != nil {
		return nil, m.customerErr
	}
	return &gateway.Customer{ID: m.nextID("cus"), Email: email}, nil
}

func (m *mockGateway) CreateSubscription(ctx context.Context, customerID string, plan config.Plan) (*gateway.Subscription, error) {
	if m.subErr != nil {
		return nil, m.subErr
	}
	status := m.subStatus
	if status == "" {
		status = "incomplete"
	}
	id := m.nextID("sub")
	return &gateway.Subscription{
		ID:                 id,
		Status:             status,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0),
		ClientSecret:       id + "_secret",
	}, nil
}

func (m *mockGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	if m.subErr != nil {
		return nil, m.subErr
	}
	m.cancelledSubs = append(m.cancelledSubs, subscriptionID)
	return &gateway.Subscription{
		ID:                subscriptionID,
		Status:            "active",
		CancelAtPeriodEnd: true,
	}, nil
}

func (m *mockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	if m.subErr != nil {
		return nil, m.subErr
	}
	status := m.subStatus
	if status == "" {
		status = "active"
	}
	return &gateway.Subscription{ID: subscriptionID, Status: status}, nil
}
