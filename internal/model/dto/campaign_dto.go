package dto

type CreateCampaignRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	GoalAmount  float64 `json:"goal_amount" binding:"required,gt=0"`
	BadgeURL    string  `json:"badge_url"`
	EndDate     string  `json:"end_date"` // RFC3339
}

type UpdateCampaignRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	GoalAmount  *float64 `json:"goal_amount"`
	BadgeURL    *string  `json:"badge_url"`
	EndDate     *string  `json:"end_date"`
	Status      *string  `json:"status"` // 仅允许 open -> closed
}

type CampaignProgress struct {
	CampaignID         int64   `json:"campaign_id"`
	Name               string  `json:"name"`
	CurrentAmount      float64 `json:"current_amount"`
	GoalAmount         float64 `json:"goal_amount"`
	ProgressPercentage float64 `json:"progress_percentage"`
	Status             string  `json:"status"`
}

type CampaignDonations struct {
	TotalDonations int         `json:"total_donations"`
	TotalAmount    float64     `json:"total_amount"`
	Items          interface{} `json:"items"`
}
