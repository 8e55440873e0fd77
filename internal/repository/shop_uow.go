package repository

import (
	"context"

	"gorm.io/gorm"
)

// ==================== ShopUnitOfWork 商店工作单元 ====================

// ShopUnitOfWork 把订单流程涉及的仓库捆绑成一个工作单元。
// Transaction 内拿到的 uow 绑定同一个事务连接：
// 扣款与订单落库、状态迁移与退款都必须在同一个事务里成对出现
type ShopUnitOfWork struct {
	db *gorm.DB

	Listings ShopListingRepository
	Orders   ShopOrderRepository
	Pogs     PlayerOnGameServerRepository
	Users    UserRepository
	Items    ItemRepository
}

// NewShopUnitOfWork 创建商店工作单元
func NewShopUnitOfWork(db *gorm.DB) *ShopUnitOfWork {
	return &ShopUnitOfWork{
		db:       db,
		Listings: NewShopListingRepository(db),
		Orders:   NewShopOrderRepository(db),
		Pogs:     NewPlayerOnGameServerRepository(db),
		Users:    NewUserRepository(db),
		Items:    NewItemRepository(db),
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 返回错误则整体回滚
func (u *ShopUnitOfWork) Transaction(ctx context.Context, fn func(txUow *ShopUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewShopUnitOfWork(tx))
	})
}
