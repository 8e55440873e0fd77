package model

import (
	"time"
)

// ==================== Item 游戏物品 ====================

// Item 游戏物品目录条目（按游戏服务器维度维护，code 为游戏内物品代码）
type Item struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	GameServerID int64  `gorm:"index;not null;uniqueIndex:uniq_server_code" json:"game_server_id"`
	Code         string `gorm:"size:128;not null;uniqueIndex:uniq_server_code" json:"code"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (*Item) TableName() string {
	return "items"
}
