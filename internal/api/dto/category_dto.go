package dto

// ==================== 分类请求 ====================

// CreateCategoryRequest 创建分类
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateCategoryRequest 更新分类（nil 字段不修改）
type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

// MoveCategoryRequest 移动分类到新父级（nil 表示移到根层级）
type MoveCategoryRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// BulkAssignCategoriesRequest 批量增删商品的分类关联
type BulkAssignCategoriesRequest struct {
	ListingIDs        []int64 `json:"listing_ids" binding:"required"`
	AddCategoryIDs    []int64 `json:"add_category_ids"`
	RemoveCategoryIDs []int64 `json:"remove_category_ids"`
}

// ==================== 分类响应 ====================

// CategoryVO 分类视图
type CategoryVO struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	ParentID     *int64       `json:"parent_id"`
	ListingCount int64        `json:"listing_count"`
	Children     []CategoryVO `json:"children,omitempty"`
}
