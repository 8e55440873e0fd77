package repository

import (
	"context"
	"errors"

	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// ListingFilter 商品查询过滤条件。
// CategoryIDs 期望传入已经过层级展开的分类集合；
// CategoryIDs 与 Uncategorized 同时给出时按 AND 组合，结果恒为空（保留原系统行为）
type ListingFilter struct {
	GameServerID *int64
	Draft        *bool
	IDs          []int64
	NameLike     string
	CategoryIDs  []int64
	Uncategorized bool
	Page         int
	PageSize     int
}

// ListingPatch 商品更新补丁。nil 字段表示不修改；
// Items / CategoryIDs / RoleIDs 非 nil 时整体替换（先删后插，不做差量合并）
type ListingPatch struct {
	Name        *string
	Price       *int64
	Icon        *string
	Description *string
	Draft       *bool
	Items       []model.ShopListingItem
	CategoryIDs []int64
	RoleIDs     []int64
}

// ==================== ShopListingRepository 商店商品仓库 ====================

// ShopListingRepository 商店商品仓库接口
type ShopListingRepository interface {
	// Create 单事务落库：商品行 + 条目行 + 分类/角色关联行
	Create(ctx context.Context, listing *model.ShopListing, categoryIDs, roleIDs []int64) error
	// GetByID 排除软删除；不存在返回 nil
	GetByID(ctx context.Context, id int64) (*model.ShopListing, error)
	// GetByIDUnscoped 含软删除行（取消退款、下单校验用）
	GetByIDUnscoped(ctx context.Context, id int64) (*model.ShopListing, error)
	Find(ctx context.Context, filter ListingFilter) ([]model.ShopListing, int64, error)
	Update(ctx context.Context, id int64, patch ListingPatch) error
	// SoftDelete 设置 deletedAt；行不存在或已删除返回 NotFound
	SoftDelete(ctx context.Context, id int64) error
	ListIDsByGameServer(ctx context.Context, gameServerID int64) ([]int64, error)
	AddRole(ctx context.Context, listingID, roleID int64) error
	// RemoveRole 关联不存在时返回 NotFound
	RemoveRole(ctx context.Context, listingID, roleID int64) error
}

// ==================== 实现 ====================

type shopListingRepository struct {
	db *gorm.DB
}

// NewShopListingRepository 创建商店商品仓库
func NewShopListingRepository(db *gorm.DB) ShopListingRepository {
	return &shopListingRepository{db: db}
}

func (r *shopListingRepository) Create(ctx context.Context, listing *model.ShopListing, categoryIDs, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 商品行与条目行（gorm 级联插入 Items）
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		for _, categoryID := range categoryIDs {
			row := model.ShopListingCategory{ListingID: listing.ID, CategoryID: categoryID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, roleID := range roleIDs {
			row := model.ShopListingRole{ListingID: listing.ID, RoleID: roleID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *shopListingRepository) GetByID(ctx context.Context, id int64) (*model.ShopListing, error) {
	var listing model.ShopListing
	err := r.db.WithContext(ctx).Preload("Items.Item").First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrateAssociations(ctx, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *shopListingRepository) GetByIDUnscoped(ctx context.Context, id int64) (*model.ShopListing, error) {
	var listing model.ShopListing
	err := r.db.WithContext(ctx).Unscoped().Preload("Items.Item").First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrateAssociations(ctx, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *shopListingRepository) Find(ctx context.Context, filter ListingFilter) ([]model.ShopListing, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ShopListing{})

	if filter.GameServerID != nil {
		query = query.Where("game_server_id = ?", *filter.GameServerID)
	}
	if filter.Draft != nil {
		query = query.Where("draft = ?", *filter.Draft)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.NameLike != "" {
		query = query.Where("name LIKE ?", "%"+filter.NameLike+"%")
	}

	// 分类过滤：子查询组合，两个谓词无条件 AND。
	// 同时给出 CategoryIDs 和 Uncategorized 时结果恒为空
	if len(filter.CategoryIDs) > 0 {
		sub := r.db.Model(&model.ShopListingCategory{}).
			Select("listing_id").
			Where("category_id IN ?", filter.CategoryIDs)
		query = query.Where("id IN (?)", sub)
	}
	if filter.Uncategorized {
		sub := r.db.Model(&model.ShopListingCategory{}).Select("listing_id")
		query = query.Where("id NOT IN (?)", sub)
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

	var listings []model.ShopListing
	err := query.
		Preload("Items.Item").
		Order("id").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range listings {
		if err := r.hydrateAssociations(ctx, &listings[i]); err != nil {
			return nil, 0, err
		}
	}
	return listings, total, nil
}

func (r *shopListingRepository) Update(ctx context.Context, id int64, patch ListingPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{}
		if patch.Name != nil {
			fields["name"] = *patch.Name
		}
		if patch.Price != nil {
			fields["price"] = *patch.Price
		}
		if patch.Icon != nil {
			fields["icon"] = *patch.Icon
		}
		if patch.Description != nil {
			fields["description"] = *patch.Description
		}
		if patch.Draft != nil {
			fields["draft"] = *patch.Draft
		}
		if len(fields) > 0 {
			res := tx.Model(&model.ShopListing{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("Shop listing not found")
			}
		}

		// 条目/关联整体替换：先删后插
		if patch.Items != nil {
			if err := tx.Where("listing_id = ?", id).
				Delete(&model.ShopListingItem{}).Error; err != nil {
				return err
			}
			for i := range patch.Items {
				patch.Items[i].ID = 0
				patch.Items[i].ListingID = id
			}
			if len(patch.Items) > 0 {
				if err := tx.Create(&patch.Items).Error; err != nil {
					return err
				}
			}
		}
		if patch.CategoryIDs != nil {
			if err := tx.Where("listing_id = ?", id).
				Delete(&model.ShopListingCategory{}).Error; err != nil {
				return err
			}
			for _, categoryID := range patch.CategoryIDs {
				row := model.ShopListingCategory{ListingID: id, CategoryID: categoryID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		if patch.RoleIDs != nil {
			if err := tx.Where("listing_id = ?", id).
				Delete(&model.ShopListingRole{}).Error; err != nil {
				return err
			}
			for _, roleID := range patch.RoleIDs {
				row := model.ShopListingRole{ListingID: id, RoleID: roleID}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *shopListingRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ShopListing{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Shop listing not found")
	}
	return nil
}

func (r *shopListingRepository) ListIDsByGameServer(ctx context.Context, gameServerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.ShopListing{}).
		Where("game_server_id = ?", gameServerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *shopListingRepository) AddRole(ctx context.Context, listingID, roleID int64) error {
	row := model.ShopListingRole{ListingID: listingID, RoleID: roleID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "listing_id"}, {Name: "role_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

func (r *shopListingRepository) RemoveRole(ctx context.Context, listingID, roleID int64) error {
	res := r.db.WithContext(ctx).
		Where("listing_id = ? AND role_id = ?", listingID, roleID).
		Delete(&model.ShopListingRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Listing role assignment not found")
	}
	return nil
}

// hydrateAssociations 填充 CategoryIDs / RoleIDs（显式查询，不走图加载）
func (r *shopListingRepository) hydrateAssociations(ctx context.Context, listing *model.ShopListing) error {
	var categoryIDs []int64
	if err := r.db.WithContext(ctx).
		Model(&model.ShopListingCategory{}).
		Where("listing_id = ?", listing.ID).
		Pluck("category_id", &categoryIDs).Error; err != nil {
		return err
	}
	listing.CategoryIDs = categoryIDs

	var roleIDs []int64
	if err := r.db.WithContext(ctx).
		Model(&model.ShopListingRole{}).
		Where("listing_id = ?", listing.ID).
		Pluck("role_id", &roleIDs).Error; err != nil {
		return err
	}
	listing.RoleIDs = roleIDs
	return nil
}
