package service

import (
	"context"
	"errors"
	"testing"

	"gameshop_v1_202608/internal/model"
)

func fulfillmentFixture() (*model.ShopOrder, *model.ShopListing, *model.PlayerOnGameServer) {
	order := &model.ShopOrder{ID: 7, ListingID: 3, UserID: 11, Amount: 2, Status: model.OrderStatusCompleted}
	listing := &model.ShopListing{
		ID:           3,
		GameServerID: 1,
		Name:         "Bundle",
		Items: []model.ShopListingItem{
			{ItemID: 1, Amount: 10, Item: &model.Item{ID: 1, Code: "wood", Name: "Wood"}},
			{ItemID: 2, Amount: 5, Quality: "fine", Item: &model.Item{ID: 2, Code: "stone", Name: "Stone"}},
		},
	}
	pog := &model.PlayerOnGameServer{ID: 5, PlayerID: 9, GameServerID: 1, GameID: "steam-9", Online: true}
	return order, listing, pog
}

func TestFulfillmentDeliver_GrantsPerRound(t *testing.T) {
	gw := &stubGateway{}
	events := &stubEvents{}
	svc := NewFulfillmentService(gw, events)

	order, listing, pog := fulfillmentFixture()
	if err := svc.Deliver(context.Background(), order, listing, pog); err != nil {
		t.Fatalf("Deliver 失败: %v", err)
	}

	// 2 份 × 2 条目 = 4 次发放
	if len(gw.grants) != 4 {
		t.Fatalf("发放次数 = %d, want 4", len(gw.grants))
	}
	if gw.grants[0].ItemCode != "wood" || gw.grants[0].Amount != 10 {
		t.Errorf("首次发放 = %+v, want wood x10", gw.grants[0])
	}
	if gw.grants[1].Quality != "fine" {
		t.Errorf("品质 = %q, want fine", gw.grants[1].Quality)
	}

	// 收货提示 + 每个条目一行明细，数量是条目数乘以订单份数
	if len(gw.messages) != 3 {
		t.Fatalf("消息数 = %d, want 3 (%v)", len(gw.messages), gw.messages)
	}
	if gw.messages[0] != "You have received items from a shop order." {
		t.Errorf("提示消息 = %q", gw.messages[0])
	}
	if gw.messages[1] != "20x Wood" {
		t.Errorf("明细消息 = %q, want \"20x Wood\"", gw.messages[1])
	}
	if gw.messages[2] != "10x Stone" {
		t.Errorf("明细消息 = %q, want \"10x Stone\"", gw.messages[2])
	}
}

func TestFulfillmentDeliver_PartialFailure(t *testing.T) {
	gw := &stubGateway{}
	events := &stubEvents{}
	svc := NewFulfillmentService(gw, events)

	failErr := errors.New("connector down")
	gw.giveErr = func(code string) error {
		if code == "stone" {
			return failErr
		}
		return nil
	}

	order, listing, pog := fulfillmentFixture()
	err := svc.Deliver(context.Background(), order, listing, pog)
	if err == nil {
		t.Fatal("部分失败应返回错误")
	}
	if !errors.Is(err, failErr) {
		t.Errorf("err = %v, want 包装 %v", err, failErr)
	}

	// wood 两份照常发放
	if len(gw.grants) != 2 {
		t.Errorf("成功发放次数 = %d, want 2", len(gw.grants))
	}

	// 发放失败事件
	fails := events.byName(model.EventShopOrderDeliveryFail)
	if len(fails) != 1 {
		t.Fatalf("失败事件数 = %d, want 1", len(fails))
	}
	if fails[0].Meta["failed"] != 2 {
		t.Errorf("失败条数 = %v, want 2", fails[0].Meta["failed"])
	}
}

func TestFulfillmentDeliver_MessageFailureIgnored(t *testing.T) {
	gw := &stubGateway{sendErr: errors.New("chat offline")}
	events := &stubEvents{}
	svc := NewFulfillmentService(gw, events)

	order, listing, pog := fulfillmentFixture()
	if err := svc.Deliver(context.Background(), order, listing, pog); err != nil {
		t.Fatalf("消息失败不应影响发放: %v", err)
	}
	if len(gw.grants) != 4 {
		t.Errorf("发放次数 = %d, want 4", len(gw.grants))
	}
}
