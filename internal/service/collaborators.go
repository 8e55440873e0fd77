package service

import (
	"context"
)

// ==================== 外部协作者接口 ====================
// 商店核心只依赖这些接口；真正的游戏服务器协议适配、
// 事件总线等由外围基础设施提供实现

// GameServerGateway 游戏服务器网关：发货与游戏内私聊
type GameServerGateway interface {
	// GiveItem 给玩家发放 amount 个指定物品
	GiveItem(ctx context.Context, gameServerID int64, playerGameID, itemCode string, amount int, quality string) error
	// SendMessage 向指定玩家发送游戏内消息
	SendMessage(ctx context.Context, gameServerID int64, text, recipientGameID string) error
}

// AuthorizationOracle 能力鉴权
type AuthorizationOracle interface {
	HasCapability(ctx context.Context, userID int64, capability string) (bool, error)
}

// ==================== 事件 ====================

// EventEnvelope 领域事件信封
type EventEnvelope struct {
	Name         string
	GameServerID *int64
	PlayerID     *int64
	UserID       *int64
	Meta         map[string]interface{}
}

// EventSink 领域事件出口。Emit 为 fire-and-forget：
// 投递至少一次、顺序不保证，失败只记录不回传
type EventSink interface {
	Emit(ctx context.Context, event EventEnvelope)
}

// ptrInt64 便捷取址
func ptrInt64(v int64) *int64 {
	return &v
}
