package dto

// ==================== 商品请求 ====================

// ListingItemInput 商品条目。Code 与 ItemID 二选一，Code 优先按游戏服物品编码解析
type ListingItemInput struct {
	ItemID  int64  `json:"item_id"`
	Code    string `json:"code"`
	Amount  int    `json:"amount" binding:"required,min=1"`
	Quality string `json:"quality"`
}

// CreateListingRequest 创建商品
type CreateListingRequest struct {
	GameServerID int64              `json:"game_server_id" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	Price        int64              `json:"price" binding:"required"`
	Icon         string             `json:"icon"`
	Description  string             `json:"description"`
	Draft        bool               `json:"draft"`
	Items        []ListingItemInput `json:"items" binding:"required"`
	CategoryIDs  []int64            `json:"category_ids"`
	RoleIDs      []int64            `json:"role_ids"`
}

// UpdateListingRequest 更新商品。指针字段 nil 表示不修改；
// 切片字段 nil 表示不修改，非 nil 表示整体替换
type UpdateListingRequest struct {
	Name        *string            `json:"name"`
	Price       *int64             `json:"price"`
	Icon        *string            `json:"icon"`
	Description *string            `json:"description"`
	Draft       *bool              `json:"draft"`
	Items       []ListingItemInput `json:"items"`
	CategoryIDs []int64            `json:"category_ids"`
	RoleIDs     []int64            `json:"role_ids"`
}

// ListListingsRequest 商品列表查询
type ListListingsRequest struct {
	GameServerID  *int64  `form:"game_server_id"`
	Draft         *bool   `form:"draft"`
	Name          string  `form:"name"`
	CategoryIDs   []int64 `form:"category_ids"`
	Uncategorized bool    `form:"uncategorized"`
	Page          int     `form:"page"`
	PageSize      int     `form:"page_size"`
}

// ImportListingsRequest 批量导入商品
type ImportListingsRequest struct {
	GameServerID int64                  `json:"game_server_id" binding:"required"`
	Replace      bool                   `json:"replace"`
	Draft        bool                   `json:"draft"`
	Listings     []CreateListingRequest `json:"listings" binding:"required"`
}

// ListingRoleRequest 商品角色可见性
type ListingRoleRequest struct {
	RoleID int64 `json:"role_id" binding:"required"`
}
