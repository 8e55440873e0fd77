package controller

import (
	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/service"
)

// ShopCategoryController 分类接口
type ShopCategoryController struct {
	categoryService *service.ShopCategoryService
}

// NewShopCategoryController 创建分类控制器
func NewShopCategoryController(categoryService *service.ShopCategoryService) *ShopCategoryController {
	return &ShopCategoryController{categoryService: categoryService}
}

// ==================== 查询接口 ====================

// GetCategoryTree 获取完整分类树
func (ctrl *ShopCategoryController) GetCategoryTree(c *gin.Context) {
	tree, err := ctrl.categoryService.Tree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tree)
}

// GetCategory 获取分类详情
func (ctrl *ShopCategoryController) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	category, err := ctrl.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// ==================== 管理接口 ====================

// CreateCategory 创建分类
func (ctrl *ShopCategoryController) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	category, err := ctrl.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// UpdateCategory 重命名分类
func (ctrl *ShopCategoryController) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	category, err := ctrl.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// MoveCategory 移动分类
func (ctrl *ShopCategoryController) MoveCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	category, err := ctrl.categoryService.Move(c.Request.Context(), id, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// DeleteCategory 删除分类
func (ctrl *ShopCategoryController) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.categoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// BulkAssignCategories 批量增删商品分类关联
func (ctrl *ShopCategoryController) BulkAssignCategories(c *gin.Context) {
	var req dto.BulkAssignCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.categoryService.BulkAssign(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
