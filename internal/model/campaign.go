package model

import (
	"time"
)

// 活动状态：open 可以继续接受捐款；closed 人工关闭；finished 达标或到期自动结束。
// closed 和 finished 均为终态，不允许回到 open。
const (
	CampaignStatusOpen     = "open"
	CampaignStatusClosed   = "closed"
	CampaignStatusFinished = "finished"
)

type Campaign struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	GoalAmount  float64 `gorm:"type:decimal(12,2);not null" json:"goal_amount"`
	// CurrentAmount 是派生值：始终等于该活动下所有 completed 捐款金额之和，
	// 只允许整体重算写入，禁止原地累加
	CurrentAmount float64    `gorm:"type:decimal(12,2);default:0" json:"current_amount"`
	Status        string     `gorm:"size:20;default:open;index" json:"status"` // open, closed, finished
	BadgeURL      string     `gorm:"size:500" json:"badge_url,omitempty"`
	EndDate       *time.Time `gorm:"index" json:"end_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
