package service

import (
	"context"
	"fmt"

	"gameshop_v1_202608/internal/model"
)

// ==================== FulfillmentService ====================

// FulfillmentService 订单履约服务，把已领取订单的物品逐条发放到
// 游戏服并通知玩家
type FulfillmentService struct {
	gateway GameServerGateway
	events  EventSink
}

// NewFulfillmentService 创建履约服务
func NewFulfillmentService(gateway GameServerGateway, events EventSink) *FulfillmentService {
	return &FulfillmentService{gateway: gateway, events: events}
}

// Deliver 发放订单物品。订单份数乘以商品条目逐一下发，单条失败
// 不阻断其余条目，结束后合并上报。部分失败会发出发放失败事件，
// 留给补发流程处理
func (s *FulfillmentService) Deliver(ctx context.Context, order *model.ShopOrder, listing *model.ShopListing, pog *model.PlayerOnGameServer) error {
	type grant struct {
		code    string
		amount  int
		quality string
	}

	var grants []grant
	for round := 0; round < order.Amount; round++ {
		for _, li := range listing.Items {
			code := ""
			if li.Item != nil {
				code = li.Item.Code
			}
			grants = append(grants, grant{
				code:    code,
				amount:  li.Amount,
				quality: li.Quality,
			})
		}
	}

	failures := settleAll(len(grants), func(i int) error {
		g := grants[i]
		if g.code == "" {
			return fmt.Errorf("listing %d: item reference missing", listing.ID)
		}
		return s.gateway.GiveItem(ctx, listing.GameServerID, pog.GameID, g.code, g.amount, g.quality)
	})

	// 通知玩家收货明细，每个条目一行，数量为条目数乘以订单份数。
	// 通知失败不算发放失败
	if err := s.gateway.SendMessage(ctx, listing.GameServerID, "You have received items from a shop order.", pog.GameID); err == nil {
		for _, li := range listing.Items {
			if li.Item == nil {
				continue
			}
			label := li.Item.Name
			if label == "" {
				label = li.Item.Code
			}
			_ = s.gateway.SendMessage(ctx, listing.GameServerID, fmt.Sprintf("%dx %s", li.Amount*order.Amount, label), pog.GameID)
		}
	}

	if len(failures) > 0 {
		s.events.Emit(ctx, EventEnvelope{
			Name:         model.EventShopOrderDeliveryFail,
			GameServerID: ptrInt64(listing.GameServerID),
			PlayerID:     ptrInt64(pog.PlayerID),
			UserID:       ptrInt64(order.UserID),
			Meta: map[string]interface{}{
				"orderId": order.ID,
				"failed":  len(failures),
				"total":   len(grants),
				"error":   failures[0].Err.Error(),
			},
		})
		return fmt.Errorf("deliver order %d: %d of %d grants failed: %w",
			order.ID, len(failures), len(grants), failures[0].Err)
	}
	return nil
}
