package controller

import (
	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/service"
)

// ShopListingController 商品接口
type ShopListingController struct {
	listingService *service.ShopListingService
}

// NewShopListingController 创建商品控制器
func NewShopListingController(listingService *service.ShopListingService) *ShopListingController {
	return &ShopListingController{listingService: listingService}
}

// ==================== 查询接口 ====================

// ListListings 获取商品列表
func (ctrl *ShopListingController) ListListings(c *gin.Context) {
	var req dto.ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	listings, total, err := ctrl.listingService.Find(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, listings, total, req.Page, req.PageSize)
}

// GetListing 获取商品详情
func (ctrl *ShopListingController) GetListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := ctrl.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, listing)
}

// ==================== 管理接口 ====================

// CreateListing 创建商品
func (ctrl *ShopListingController) CreateListing(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	listing, err := ctrl.listingService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, listing)
}

// UpdateListing 更新商品
func (ctrl *ShopListingController) UpdateListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	listing, err := ctrl.listingService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, listing)
}

// DeleteListing 下架商品
func (ctrl *ShopListingController) DeleteListing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.listingService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// ImportListings 批量导入商品
func (ctrl *ShopListingController) ImportListings(c *gin.Context) {
	var req dto.ImportListingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	result, err := ctrl.listingService.Import(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// ==================== 角色可见性 ====================

// AddListingRole 追加商品可见角色
func (ctrl *ShopListingController) AddListingRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ListingRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.listingService.AddRole(c.Request.Context(), id, req.RoleID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// RemoveListingRole 移除商品可见角色
func (ctrl *ShopListingController) RemoveListingRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	roleID, ok := pathID(c, "roleId")
	if !ok {
		return
	}
	if err := ctrl.listingService.RemoveRole(c.Request.Context(), id, roleID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
