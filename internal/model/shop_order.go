package model

import (
	"time"
)

// ==================== 订单状态常量 ====================

// ShopOrderStatus 订单状态
// PAID 是唯一非终态；COMPLETED / CANCELED 为终态且互斥，进入后不再变更
const (
	OrderStatusPaid      = "paid"      // 已扣款，待认领
	OrderStatusCompleted = "completed" // 已认领发货（终态）
	OrderStatusCanceled  = "canceled"  // 已取消退款（终态）
)

// ==================== ShopOrder 商店订单 ====================

// ShopOrder 商店订单（创建即扣款，之后仅发生一次 claim 或 cancel）
type ShopOrder struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID int64 `gorm:"index;not null" json:"listing_id"`
	UserID    int64 `gorm:"index;not null" json:"user_id"`
	Amount    int   `gorm:"not null" json:"amount"`

	Status string `gorm:"size:16;index;default:paid" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (*ShopOrder) TableName() string {
	return "shop_orders"
}

// CanClaim 是否可认领
func (o *ShopOrder) CanClaim() bool {
	return o.Status == OrderStatusPaid
}

// CanCancel 是否可取消
func (o *ShopOrder) CanCancel() bool {
	return o.Status == OrderStatusPaid
}

// IsTerminal 是否已进入终态
func (o *ShopOrder) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCanceled
}
