package model

import (
	"time"
)

// ==================== Player 玩家 ====================

// Player 玩家（跨游戏服务器的全局身份）
type Player struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (*Player) TableName() string {
	return "players"
}

// ==================== PlayerOnGameServer 玩家-服务器 (pog) ====================

// PlayerOnGameServer 玩家在单个游戏服务器上的存在（pog）：
// 货币余额、在线状态、游戏内 ID 都挂在这一行上，是共享可变资源
type PlayerOnGameServer struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID     int64 `gorm:"not null;uniqueIndex:uniq_player_server" json:"player_id"`
	GameServerID int64 `gorm:"not null;uniqueIndex:uniq_player_server;index" json:"game_server_id"`

	// GameID 玩家在该服务器上的游戏内标识（发货/私聊用）
	GameID string `gorm:"size:128;not null" json:"game_id"`

	Currency int64 `gorm:"not null;default:0" json:"currency"`
	Online   bool  `gorm:"default:false" json:"online"`

	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (*PlayerOnGameServer) TableName() string {
	return "player_on_game_servers"
}
