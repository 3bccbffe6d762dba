package dto

type CreateDonorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
}

type UpdateDonorRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type DonorSummary struct {
	DonorID            int64   `json:"donor_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	TotalDonated       float64 `json:"total_donated"`
	DonationCount      int64   `json:"donation_count"`
	SubscriptionStatus string  `json:"subscription_status"`
	ActiveSubscription interface{} `json:"active_subscription,omitempty"`
}
