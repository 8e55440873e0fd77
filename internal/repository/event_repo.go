package repository

import (
	"context"
	"time"

	"gameshop_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== EventOutboxRepository 事件发件箱仓库 ====================

// EventOutboxRepository 事件发件箱仓库接口
type EventOutboxRepository interface {
	Create(ctx context.Context, event *model.EventOutbox) error
	// ListUnpublished 最多返回 limit 条未投递事件（重投任务用）
	ListUnpublished(ctx context.Context, limit int) ([]model.EventOutbox, error)
	MarkPublished(ctx context.Context, id int64) error
}

type eventOutboxRepository struct {
	db *gorm.DB
}

// NewEventOutboxRepository 创建事件发件箱仓库
func NewEventOutboxRepository(db *gorm.DB) EventOutboxRepository {
	return &eventOutboxRepository{db: db}
}

func (r *eventOutboxRepository) Create(ctx context.Context, event *model.EventOutbox) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]model.EventOutbox, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []model.EventOutbox
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventOutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.EventOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"published":    true,
			"published_at": &now,
		}).Error
}
