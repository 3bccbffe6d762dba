package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/pkg/gateway"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/repository"
	"github.com/projectreach/reach_go_server/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testContext struct {
	DB *gorm.DB
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// stubGateway 测试网关桩，默认全部成功
type stubGateway struct {
	seq       int64
	chargeErr error
}

func (m *stubGateway) nextID(prefix string) string {
	return fmt.Sprintf("%s_stub_%d", prefix, atomic.AddInt64(&m.seq, 1))
}

func (m *stubGateway) CreateCharge(ctx context.Context, amountCents int64, currency, description, source string) (*gateway.Charge, error) {
	if m.chargeErr != nil {
		return nil, m.chargeErr
	}
	return &gateway.Charge{ID: m.nextID("ch"), Status: "succeeded"}, nil
}

func (m *stubGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (*gateway.PaymentIntent, error) {
	id := m.nextID("pi")
	return &gateway.PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (m *stubGateway) GetOrCreateCustomer(ctx context.Context, email, name string) (*gateway.Customer, error) {
	return &gateway.Customer{ID: m.nextID("cus"), Email: email}, nil
}

func (m *stubGateway) CreateSubscription(ctx context.Context, customerID string, plan config.Plan) (*gateway.Subscription, error) {
	id := m.nextID("sub")
	return &gateway.Subscription{
		ID:                 id,
		Status:             "active",
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0),
		ClientSecret:       id + "_secret",
	}, nil
}

func (m *stubGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	return &gateway.Subscription{ID: subscriptionID, Status: "active", CancelAtPeriodEnd: true}, nil
}

func (m *stubGateway) GetSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	return &gateway.Subscription{ID: subscriptionID, Status: "active"}, nil
}

func newTestServices(db *gorm.DB, gw gateway.Gateway) (*service.CampaignService, *service.DonorService, *service.DonationService) {
	donorRepo := repository.NewDonorRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	donorService := service.NewDonorService(donorRepo, donationRepo, subRepo)
	campaignService := service.NewCampaignService(
		repository.NewCampaignRepository(db), donationRepo)
	donationService := service.NewDonationService(donationRepo, donorService, campaignService, gw)

	return campaignService, donorService, donationService
}
