package model

import (
	"time"
)

// ==================== 用户状态/角色常量 ====================

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 系统级角色: admin (管理员，持有全部能力), user (普通玩家账号)
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// ==================== 能力常量 ====================

// 能力（capability）用于跨用户订单可见性与特权下单/取消的门控
const (
	CapManageShopOrders   = "MANAGE_SHOP_ORDERS"
	CapManageShopListings = "MANAGE_SHOP_LISTINGS"
)

// ==================== User 用户 ====================

// User 面板用户账号。PlayerID 为空表示尚未关联游戏内玩家，无法下单
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // 哈希密码

	Role   string `gorm:"size:20;default:'user'" json:"role"`
	Status string `gorm:"size:20;default:'active'" json:"status"`

	// 关联的游戏玩家（账号打通后才能购买）
	PlayerID *int64 `gorm:"index" json:"player_id"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (*User) TableName() string {
	return "users"
}

// HasLinkedPlayer 是否已关联玩家
func (u *User) HasLinkedPlayer() bool {
	return u.PlayerID != nil && *u.PlayerID > 0
}

// ==================== Role 角色 ====================

// Role 商店侧的授权角色（商品可通过角色限制可见性）
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (*Role) TableName() string {
	return "roles"
}
