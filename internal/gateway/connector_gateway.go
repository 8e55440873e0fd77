package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== ConnectorGateway ====================

// ConnectorConfig 游戏服连接器配置
type ConnectorConfig struct {
	BaseURL string // e.g. http://localhost:3002
	Token   string
	Timeout time.Duration
}

// ConnectorGateway 游戏服连接器客户端，负责向游戏服下发物品和消息
type ConnectorGateway struct {
	client *resty.Client
}

// NewConnectorGateway 创建连接器客户端
func NewConnectorGateway(cfg ConnectorConfig) *ConnectorGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &ConnectorGateway{client: client}
}

// GiveItem 向玩家发放物品
func (g *ConnectorGateway) GiveItem(ctx context.Context, gameServerID int64, playerGameID, itemCode string, amount int, quality string) error {
	body := map[string]interface{}{
		"playerGameId": playerGameID,
		"code":         itemCode,
		"amount":       amount,
	}
	if quality != "" {
		body["quality"] = quality
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/api/gameservers/%d/give-item", gameServerID))
	if err != nil {
		return fmt.Errorf("give item %s to %s: %w", itemCode, playerGameID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("give item %s to %s: connector returned %s", itemCode, playerGameID, resp.Status())
	}
	return nil
}

// SendMessage 向玩家发送聊天消息。recipientGameID 为空表示全服广播
func (g *ConnectorGateway) SendMessage(ctx context.Context, gameServerID int64, text, recipientGameID string) error {
	body := map[string]interface{}{
		"message": text,
	}
	if recipientGameID != "" {
		body["recipient"] = recipientGameID
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/api/gameservers/%d/message", gameServerID))
	if err != nil {
		return fmt.Errorf("send message to game server %d: %w", gameServerID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send message to game server %d: connector returned %s", gameServerID, resp.Status())
	}
	return nil
}
