package dto

// ==================== 订单请求 ====================

// CreateOrderRequest 创建订单。UserID 仅限有订单管理权限的用户代下单时填写
type CreateOrderRequest struct {
	ListingID int64  `json:"listing_id" binding:"required"`
	Amount    int    `json:"amount" binding:"required"`
	UserID    *int64 `json:"user_id"`
}

// ListOrdersRequest 订单列表查询
type ListOrdersRequest struct {
	ListingID *int64   `form:"listing_id"`
	Status    []string `form:"status"`
	Page      int      `form:"page"`
	PageSize  int      `form:"page_size"`
}
