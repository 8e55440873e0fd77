package repository

import (
	"context"
	"errors"

	"gameshop_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单查询过滤条件
type OrderFilter struct {
	ListingID *int64
	UserID    *int64
	Status    []string
	Page      int
	PageSize  int
}

// ==================== ShopOrderRepository 商店订单仓库 ====================

// ShopOrderRepository 商店订单仓库接口。
// 状态迁移一律走 UpdateStatusFrom 的条件 UPDATE，
// 两个并发迁移恰有一个生效，败者拿到 false 而不是二次生效
type ShopOrderRepository interface {
	Create(ctx context.Context, order *model.ShopOrder) error
	GetByID(ctx context.Context, id int64) (*model.ShopOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]model.ShopOrder, int64, error)
	// ListPaidByListing 商品下所有 PAID 订单（级联取消用）
	ListPaidByListing(ctx context.Context, listingID int64) ([]model.ShopOrder, error)
	// UpdateStatusFrom 条件状态迁移，返回是否真的发生了迁移
	UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
}

// ==================== 实现 ====================

type shopOrderRepository struct {
	db *gorm.DB
}

// NewShopOrderRepository 创建商店订单仓库
func NewShopOrderRepository(db *gorm.DB) ShopOrderRepository {
	return &shopOrderRepository{db: db}
}

func (r *shopOrderRepository) Create(ctx context.Context, order *model.ShopOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *shopOrderRepository) GetByID(ctx context.Context, id int64) (*model.ShopOrder, error) {
	var order model.ShopOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *shopOrderRepository) List(ctx context.Context, filter OrderFilter) ([]model.ShopOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ShopOrder{})

	if filter.ListingID != nil {
		query = query.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if len(filter.Status) > 0 {
		query = query.Where("status IN ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	var orders []model.ShopOrder
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *shopOrderRepository) ListPaidByListing(ctx context.Context, listingID int64) ([]model.ShopOrder, error) {
	var orders []model.ShopOrder
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, model.OrderStatusPaid).
		Find(&orders).Error
	return orders, err
}

func (r *shopOrderRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ShopOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
