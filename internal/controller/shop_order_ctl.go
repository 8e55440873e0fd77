package controller

import (
	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/middleware"
	"gameshop_v1_202608/internal/service"
)

// ShopOrderController 订单接口
type ShopOrderController struct {
	orderService *service.ShopOrderService
}

// NewShopOrderController 创建订单控制器
func NewShopOrderController(orderService *service.ShopOrderService) *ShopOrderController {
	return &ShopOrderController{orderService: orderService}
}

// CreateOrder 下单
func (ctrl *ShopOrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	order, err := ctrl.orderService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// ListOrders 获取订单列表
func (ctrl *ShopOrderController) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
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

	orders, total, err := ctrl.orderService.Find(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, orders, total, req.Page, req.PageSize)
}

// GetOrder 获取订单详情
func (ctrl *ShopOrderController) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orderService.FindOne(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// ClaimOrder 领取订单
func (ctrl *ShopOrderController) ClaimOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orderService.Claim(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// CancelOrder 取消订单
func (ctrl *ShopOrderController) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orderService.Cancel(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
