package model

import (
	"time"
)

// WebhookEvent 已处理事件标记表。网关会重复投递事件，
// event_id 上的唯一索引是去重的依据。
type WebhookEvent struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:100;uniqueIndex;not null" json:"event_id"`
	Type      string    `gorm:"size:50;not null;index" json:"type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
