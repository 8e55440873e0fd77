package repository

import (
	"context"
	"errors"

	"gameshop_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== ShopCategoryRepository 商店分类仓库 ====================

// ShopCategoryRepository 商店分类仓库接口
type ShopCategoryRepository interface {
	Create(ctx context.Context, category *model.ShopCategory) error
	GetByID(ctx context.Context, id int64) (*model.ShopCategory, error)
	// ListAll 返回全部分类（层级解析在内存中完成）
	ListAll(ctx context.Context) ([]model.ShopCategory, error)
	ListByParent(ctx context.Context, parentID *int64) ([]model.ShopCategory, error)
	Update(ctx context.Context, category *model.ShopCategory) error
	UpdateParent(ctx context.Context, id int64, parentID *int64) error
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	// ExistsSiblingName 同层级下是否存在同名分类（大小写不敏感），excludeID 用于更新时排除自身
	ExistsSiblingName(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error)
	// ListingCount 分类下关联的商品数
	ListingCount(ctx context.Context, categoryID int64) (int64, error)

	// 商品-分类关联
	AddAssociations(ctx context.Context, listingIDs, categoryIDs []int64) error
	RemoveAssociations(ctx context.Context, listingIDs, categoryIDs []int64) error

	// Transaction 在单个事务内执行 fn
	Transaction(ctx context.Context, fn func(txRepo ShopCategoryRepository) error) error
}

// ==================== 实现 ====================

type shopCategoryRepository struct {
	db *gorm.DB
}

// NewShopCategoryRepository 创建商店分类仓库
func NewShopCategoryRepository(db *gorm.DB) ShopCategoryRepository {
	return &shopCategoryRepository{db: db}
}

func (r *shopCategoryRepository) Create(ctx context.Context, category *model.ShopCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *shopCategoryRepository) GetByID(ctx context.Context, id int64) (*model.ShopCategory, error) {
	var category model.ShopCategory
	err := r.db.WithContext(ctx).Preload("Children").First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *shopCategoryRepository) ListAll(ctx context.Context) ([]model.ShopCategory, error) {
	var categories []model.ShopCategory
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (r *shopCategoryRepository) ListByParent(ctx context.Context, parentID *int64) ([]model.ShopCategory, error) {
	query := r.db.WithContext(ctx).Model(&model.ShopCategory{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	var categories []model.ShopCategory
	err := query.Order("name").Find(&categories).Error
	return categories, err
}

func (r *shopCategoryRepository) Update(ctx context.Context, category *model.ShopCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *shopCategoryRepository) UpdateParent(ctx context.Context, id int64, parentID *int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ShopCategory{}).
		Where("id = ?", id).
		Update("parent_id", parentID).Error
}

func (r *shopCategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 分类删除同时清理商品关联行
		if err := tx.Where("category_id = ?", id).
			Delete(&model.ShopListingCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ShopCategory{}, id).Error
	})
}

func (r *shopCategoryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ShopCategory{}).Count(&count).Error
	return count, err
}

func (r *shopCategoryRepository) ExistsSiblingName(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ShopCategory{}).
		Where("LOWER(name) = LOWER(?)", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *shopCategoryRepository) ListingCount(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShopListingCategory{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// AddAssociations 批量建立商品-分类关联，已存在的组合静默跳过
func (r *shopCategoryRepository) AddAssociations(ctx context.Context, listingIDs, categoryIDs []int64) error {
	if len(listingIDs) == 0 || len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]model.ShopListingCategory, 0, len(listingIDs)*len(categoryIDs))
	for _, listingID := range listingIDs {
		for _, categoryID := range categoryIDs {
			rows = append(rows, model.ShopListingCategory{
				ListingID:  listingID,
				CategoryID: categoryID,
			})
		}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "listing_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *shopCategoryRepository) RemoveAssociations(ctx context.Context, listingIDs, categoryIDs []int64) error {
	if len(listingIDs) == 0 || len(categoryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("listing_id IN ? AND category_id IN ?", listingIDs, categoryIDs).
		Delete(&model.ShopListingCategory{}).Error
}

func (r *shopCategoryRepository) Transaction(ctx context.Context, fn func(txRepo ShopCategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&shopCategoryRepository{db: tx})
	})
}
