package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 事件名常量 ====================

const (
	EventShopListingCreated     = "shop-listing-created"
	EventShopListingUpdated     = "shop-listing-updated"
	EventShopListingDeleted     = "shop-listing-deleted"
	EventShopOrderCreated       = "shop-order-created"
	EventShopOrderStatusChanged = "shop-order-status-changed"
	EventShopOrderDeliveryFail  = "shop-order-delivery-failed"
)

// ==================== EventOutbox 事件发件箱 ====================

// EventOutbox 领域事件发件箱行。先落库再异步投递，
// 至少一次语义：下游以 EventID 去重，顺序不保证
type EventOutbox struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID string `gorm:"size:36;uniqueIndex;not null" json:"event_id"`
	Name    string `gorm:"size:64;index;not null" json:"name"`

	GameServerID *int64 `gorm:"index" json:"game_server_id,omitempty"`
	PlayerID     *int64 `json:"player_id,omitempty"`
	UserID       *int64 `json:"user_id,omitempty"`

	Meta datatypes.JSONMap `json:"meta"`

	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (*EventOutbox) TableName() string {
	return "event_outbox"
}
