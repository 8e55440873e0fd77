package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== ShopListing 商店商品 ====================

// ShopListing 商店商品（一个商品是一组游戏物品的定价打包，归属于单个游戏服务器）
type ShopListing struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GameServerID int64 `gorm:"index;not null" json:"game_server_id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	Icon        string `gorm:"type:text" json:"icon,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Draft 为 true 时对买家不可见、不可下单
	Draft bool `gorm:"default:false;index" json:"draft"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Items []ShopListingItem `gorm:"foreignKey:ListingID" json:"items"`

	// 由仓库层填充的关联 ID（显式查询拼装，不走 ORM 图加载）
	CategoryIDs []int64 `gorm:"-" json:"category_ids"`
	RoleIDs     []int64 `gorm:"-" json:"role_ids"`
}

func (*ShopListing) TableName() string {
	return "shop_listings"
}

// IsDeleted 是否已软删除
func (l *ShopListing) IsDeleted() bool {
	return l.DeletedAt.Valid
}

// ==================== ShopListingItem 商品条目 ====================

// ShopListingItem 商品内的单个物品条目（物品 + 数量 + 可选品质）
type ShopListingItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID int64  `gorm:"index;not null" json:"listing_id"`
	ItemID    int64  `gorm:"not null" json:"item_id"`
	Amount    int    `gorm:"not null" json:"amount"`
	Quality   string `gorm:"size:32" json:"quality,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (*ShopListingItem) TableName() string {
	return "shop_listing_items"
}

// ==================== ShopListingRole 商品-角色关联 ====================

// ShopListingRole 商品可见性/购买资格的角色关联行
type ShopListingRole struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID int64 `gorm:"not null;uniqueIndex:uniq_listing_role" json:"listing_id"`
	RoleID    int64 `gorm:"not null;uniqueIndex:uniq_listing_role" json:"role_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (*ShopListingRole) TableName() string {
	return "shop_listing_roles"
}
