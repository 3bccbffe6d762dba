package dto

// ChargeRequest 透传给支付网关的扣款参数（金额单位为分）
type ChargeRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Source      string `json:"source" binding:"required"`
}

// DonateRequest 同步结算入口：先扣款，再落账
type DonateRequest struct {
	CampaignID int64         `json:"campaign_id" binding:"required"`
	Email      string        `json:"email" binding:"required,email"`
	Name       string        `json:"name"`
	Amount     float64       `json:"amount" binding:"required,gt=0"`
	Charge     ChargeRequest `json:"charge" binding:"required"`
}

type DonateResponse struct {
	DonationID    int64   `json:"donation_id"`
	DonorID       int64   `json:"donor_id"`
	ChargeID      string  `json:"charge_id"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
}

// CreateIntentRequest 异步结算入口：先落 pending 账，webhook 确认后转 completed
type CreateIntentRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"` // 单位为分
	Currency   string `json:"currency"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name"`
	CampaignID int64  `json:"campaign_id" binding:"required"`
}

type CreateIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	DonorID         int64  `json:"donor_id"`
}

type DonationListItem struct {
	ID            int64   `json:"id"`
	CampaignID    *int64  `json:"campaign_id,omitempty"`
	DonorID       int64   `json:"donor_id"`
	DonorName     string  `json:"donor_name,omitempty"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
	PaymentType   string  `json:"payment_type"`
	CreatedAt     string  `json:"created_at"`
}
