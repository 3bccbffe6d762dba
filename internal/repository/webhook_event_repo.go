package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projectreach/reach_go_server/internal/model"
)

// ErrDuplicateEvent 事件已处理过
var ErrDuplicateEvent = errors.New("事件已处理")

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// MarkProcessed 以事件 ID 为唯一键做去重登记。
// 插入被唯一约束吞掉时返回 ErrDuplicateEvent，调用方据此跳过整个事件
func (r *WebhookEventRepository) MarkProcessed(eventID, eventType string) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&model.WebhookEvent{
		EventID: eventID,
		Type:    eventType,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateEvent
	}
	return nil
}

func (r *WebhookEventRepository) Exists(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WebhookEvent{}).Where("event_id = ?", eventID).Count(&count).Error
	return count > 0, err
}
