package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gameshop_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	// 单连接串行化写入，并发用例行为确定
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{}, &model.Role{},
		&model.Player{}, &model.PlayerOnGameServer{},
		&model.Item{},
		&model.ShopCategory{}, &model.ShopListingCategory{},
		&model.ShopListing{}, &model.ShopListingItem{}, &model.ShopListingRole{},
		&model.ShopOrder{},
		&model.EventOutbox{},
	)
	if err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

// ==================== 协作者桩 ====================

// recordedGrant 记录一次发放调用
type recordedGrant struct {
	GameServerID int64
	PlayerGameID string
	ItemCode     string
	Amount       int
	Quality      string
}

// stubGateway 可编程的游戏服网关桩
type stubGateway struct {
	mu       sync.Mutex
	grants   []recordedGrant
	messages []string

	giveErr func(itemCode string) error
	sendErr error
}

func (g *stubGateway) GiveItem(ctx context.Context, gameServerID int64, playerGameID, itemCode string, amount int, quality string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.giveErr != nil {
		if err := g.giveErr(itemCode); err != nil {
			return err
		}
	}
	g.grants = append(g.grants, recordedGrant{
		GameServerID: gameServerID,
		PlayerGameID: playerGameID,
		ItemCode:     itemCode,
		Amount:       amount,
		Quality:      quality,
	})
	return nil
}

func (g *stubGateway) SendMessage(ctx context.Context, gameServerID int64, text, recipientGameID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return g.sendErr
	}
	g.messages = append(g.messages, text)
	return nil
}

// stubEvents 记录发出的事件
type stubEvents struct {
	mu     sync.Mutex
	events []EventEnvelope
}

func (s *stubEvents) Emit(ctx context.Context, event EventEnvelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubEvents) byName(name string) []EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []EventEnvelope
	for _, e := range s.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// ==================== 数据种子 ====================

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role string, playerID *int64) *model.User {
	t.Helper()
	userSeq++
	user := &model.User{
		Username: fmt.Sprintf("user-%d", userSeq),
		Password: "x",
		Role:     role,
		Status:   model.UserStatusActive,
		PlayerID: playerID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return user
}

func seedPlayerWithPog(t *testing.T, db *gorm.DB, gameServerID, currency int64, online bool) (*model.Player, *model.PlayerOnGameServer) {
	t.Helper()
	player := &model.Player{Name: "player"}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("创建玩家失败: %v", err)
	}
	pog := &model.PlayerOnGameServer{
		PlayerID:     player.ID,
		GameServerID: gameServerID,
		GameID:       fmt.Sprintf("game-%d", player.ID),
		Currency:     currency,
		Online:       online,
	}
	if err := db.Create(pog).Error; err != nil {
		t.Fatalf("创建 pog 失败: %v", err)
	}
	return player, pog
}

func seedItem(t *testing.T, db *gorm.DB, gameServerID int64, code string) *model.Item {
	t.Helper()
	item := &model.Item{GameServerID: gameServerID, Code: code, Name: "Item " + code}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("创建物品失败: %v", err)
	}
	return item
}

func seedListing(t *testing.T, db *gorm.DB, gameServerID, price int64, draft bool, items ...model.ShopListingItem) *model.ShopListing {
	t.Helper()
	listing := &model.ShopListing{
		GameServerID: gameServerID,
		Name:         "Listing",
		Price:        price,
		Draft:        draft,
		Items:        items,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	return listing
}
