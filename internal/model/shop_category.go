package model

import (
	"time"
)

// ==================== ShopCategory 商店分类 ====================

// ShopCategory 商店分类（树形结构，ParentID 为空即根分类）
type ShopCategory struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:50;not null;index" json:"name"`
	ParentID *int64 `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联（按需加载）
	Children []ShopCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (*ShopCategory) TableName() string {
	return "shop_categories"
}

// ==================== ShopListingCategory 商品-分类关联 ====================

// ShopListingCategory 商品与分类的多对多关联行
type ShopListingCategory struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID  int64 `gorm:"not null;uniqueIndex:uniq_listing_category" json:"listing_id"`
	CategoryID int64 `gorm:"not null;uniqueIndex:uniq_listing_category;index" json:"category_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (*ShopListingCategory) TableName() string {
	return "shop_listing_categories"
}
