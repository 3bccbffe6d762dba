package gateway

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/price"
	"github.com/stripe/stripe-go/v76/subscription"

	"github.com/projectreach/reach_go_server/config"
)

// StripeGateway 基于 Stripe 的网关实现
type StripeGateway struct {
	cfg *config.StripeConfig
}

// NewStripeGateway 创建 Stripe 网关，设置全局密钥
func NewStripeGateway(cfg *config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}
}

func (g *StripeGateway) CreateCharge(ctx context.Context, amountCents int64, currency, description, source string) (*Charge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if source != "" {
		if err := params.SetSource(source); err != nil {
			return nil, err
		}
	}

	ch, err := charge.New(params)
	if err != nil {
		return nil, translateError(err)
	}

	return &Charge{
		ID:     ch.ID,
		Status: string(ch.Status),
	}, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountCents int64, currency, description string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, translateError(err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) GetOrCreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	it := customer.List(listParams)
	if it.Next() {
		c := it.Customer()
		return &Customer{ID: c.ID, Email: c.Email}, nil
	}
	if err := it.Err(); err != nil {
		return nil, translateError(err)
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	createParams.Context = ctx

	c, err := customer.New(createParams)
	if err != nil {
		return nil, translateError(err)
	}

	return &Customer{ID: c.ID, Email: c.Email}, nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, customerID string, plan config.Plan) (*Subscription, error) {
	// 价格内联创建，避免预先在 Stripe 后台配置产品
	priceParams := &stripe.PriceParams{
		UnitAmount: stripe.Int64(plan.PriceCents),
		Currency:   stripe.String(plan.Currency),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(plan.Interval),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(plan.Name),
		},
	}
	priceParams.Context = ctx

	p, err := price.New(priceParams)
	if err != nil {
		return nil, translateError(err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(p.ID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	subParams.Context = ctx
	subParams.AddExpand("latest_invoice.payment_intent")

	s, err := subscription.New(subParams)
	if err != nil {
		return nil, translateError(err)
	}

	return toSubscription(s), nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	s, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, translateError(err)
	}

	return toSubscription(s), nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, translateError(err)
	}

	return toSubscription(s), nil
}

func toSubscription(s *stripe.Subscription) *Subscription {
	sub := &Subscription{
		ID:                 s.ID,
		Status:             NormalizeStatus(string(s.Status)),
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		CurrentPeriodStart: unixTime(s.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTime(s.CurrentPeriodEnd),
	}
	if s.LatestInvoice != nil && s.LatestInvoice.PaymentIntent != nil {
		sub.ClientSecret = s.LatestInvoice.PaymentIntent.ClientSecret
	}
	return sub
}

func unixTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// NormalizeStatus 统一网关状态拼写，Stripe 的 canceled 本地记为 cancelled
func NormalizeStatus(status string) string {
	if status == "canceled" {
		return "cancelled"
	}
	return status
}

// translateError 将 Stripe 错误归并为拒付或不可用两类
func translateError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			return &DeclineError{
				Code: string(stripeErr.Code),
				Msg:  stripeErr.Msg,
			}
		}
		log.Printf("Stripe error: type=%s code=%s msg=%s", stripeErr.Type, stripeErr.Code, stripeErr.Msg)
	}
	return ErrUnavailable
}
