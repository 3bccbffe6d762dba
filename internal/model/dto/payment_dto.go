package dto

type PlanInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Interval   string `json:"interval"`
}

type CreateSubscriptionRequest struct {
	PlanID     string `json:"plan_id" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name"`
	CampaignID *int64 `json:"campaign_id"`
}

type CreateSubscriptionResponse struct {
	SubscriptionID        int64  `json:"subscription_id"`
	GatewaySubscriptionID string `json:"gateway_subscription_id"`
	ClientSecret          string `json:"client_secret,omitempty"`
	Status                string `json:"status"`
}

type SubscriptionStatusResponse struct {
	GatewaySubscriptionID string `json:"gateway_subscription_id"`
	PlanID                string `json:"plan_id"`
	Status                string `json:"status"`
	CurrentPeriodStart    string `json:"current_period_start,omitempty"`
	CurrentPeriodEnd      string `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd     bool   `json:"cancel_at_period_end"`
}

type PaymentStats struct {
	TotalDonationsAmount    float64 `json:"total_donations_amount"`
	TotalDonationsCount     int64   `json:"total_donations_count"`
	MonthlyRecurringRevenue float64 `json:"monthly_recurring_revenue"`
	ActiveSubscriptions     int64   `json:"active_subscriptions"`
	TotalCampaigns          int64   `json:"total_campaigns"`
}
