package repository

import (
	"context"
	"errors"
	"strings"

	"gameshop_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== ItemRepository 物品仓库 ====================

// ItemRepository 物品目录仓库接口
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	// FindByCodes 按物品代码批量解析，未命中的代码直接缺席于结果
	FindByCodes(ctx context.Context, gameServerID int64, codes []string) ([]model.Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建物品仓库
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByCodes(ctx context.Context, gameServerID int64, codes []string) ([]model.Item, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(codes))
	for i, c := range codes {
		lowered[i] = strings.ToLower(c)
	}
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("game_server_id = ? AND LOWER(code) IN ?", gameServerID, lowered).
		Find(&items).Error
	return items, err
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.Item
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}
