package service

import (
	"context"
	"fmt"
	"log"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

// ==================== 依赖接口 ====================

// Deliverer 把已领取订单的物品发放到游戏服
type Deliverer interface {
	Deliver(ctx context.Context, order *model.ShopOrder, listing *model.ShopListing, pog *model.PlayerOnGameServer) error
}

// ==================== ShopOrderService ====================

// ShopOrderService 订单服务。状态变更全部走带前置条件的
// 条件更新，两个并发操作同一订单时只有一个能成功
type ShopOrderService struct {
	uow       *repository.ShopUnitOfWork
	authz     AuthorizationOracle
	deliverer Deliverer
	events    EventSink
}

// NewShopOrderService 创建订单服务
func NewShopOrderService(
	uow *repository.ShopUnitOfWork,
	authz AuthorizationOracle,
	deliverer Deliverer,
	events EventSink,
) *ShopOrderService {
	return &ShopOrderService{
		uow:       uow,
		authz:     authz,
		deliverer: deliverer,
		events:    events,
	}
}

// ==================== 访问控制 ====================

// checkOrderAccess 校验订单归属。无权访问时返回 NotFound 而不是
// Forbidden，避免向外泄露订单是否存在
func (s *ShopOrderService) checkOrderAccess(ctx context.Context, callerID int64, order *model.ShopOrder) error {
	if order.UserID == callerID {
		return nil
	}
	ok, err := s.authz.HasCapability(ctx, callerID, model.CapManageShopOrders)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Shop order not found")
	}
	return nil
}

// ==================== 下单 ====================

// Create 创建订单。扣款与落单在同一事务内，余额不足或买家不存在
// 时整体回滚
func (s *ShopOrderService) Create(ctx context.Context, callerID int64, req *dto.CreateOrderRequest) (*model.ShopOrder, error) {
	if callerID == 0 {
		return nil, apperr.Unauthorized("Login required")
	}
	if req.Amount <= 0 {
		return nil, apperr.BadRequest("Amount must be greater than zero")
	}

	buyerID := callerID
	if req.UserID != nil && *req.UserID != callerID {
		ok, err := s.authz.HasCapability(ctx, callerID, model.CapManageShopOrders)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.BadRequest("You cannot create an order for another user. Remove the userId field to create an order for yourself")
		}
		buyerID = *req.UserID
	}

	buyer, err := s.uow.Users.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, apperr.NotFound("User not found")
	}
	if !buyer.HasLinkedPlayer() {
		return nil, apperr.BadRequest("Unknown player, make sure you have linked your account")
	}

	// 含已删除商品，区分「不存在」和「已删除」两种拒绝
	listing, err := s.uow.Listings.GetByIDUnscoped(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound("Listing not found")
	}
	if listing.IsDeleted() {
		return nil, apperr.BadRequest("Cannot order a deleted listing")
	}
	if listing.Draft {
		return nil, apperr.BadRequest("Cannot order a draft listing")
	}

	pog, err := s.uow.Pogs.GetByPlayerAndServer(ctx, *buyer.PlayerID, listing.GameServerID)
	if err != nil {
		return nil, err
	}
	if pog == nil {
		return nil, apperr.BadRequest("You have not logged in to the game server yet.")
	}

	total := listing.Price * int64(req.Amount)
	order := &model.ShopOrder{
		ListingID: listing.ID,
		UserID:    buyerID,
		Amount:    req.Amount,
		Status:    model.OrderStatusPaid,
	}
	err = s.uow.Transaction(ctx, func(tx *repository.ShopUnitOfWork) error {
		if err := tx.Pogs.DeductCurrency(ctx, pog.ID, total); err != nil {
			return err
		}
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, EventEnvelope{
		Name:         model.EventShopOrderCreated,
		GameServerID: ptrInt64(listing.GameServerID),
		PlayerID:     buyer.PlayerID,
		UserID:       ptrInt64(buyerID),
		Meta: map[string]interface{}{
			"orderId":   order.ID,
			"listingId": listing.ID,
			"amount":    order.Amount,
			"total":     total,
		},
	})
	return order, nil
}

// ==================== 查询 ====================

// FindOne 获取订单详情
func (s *ShopOrderService) FindOne(ctx context.Context, callerID, id int64) (*model.ShopOrder, error) {
	if callerID == 0 {
		return nil, apperr.Unauthorized("Login required")
	}
	order, err := s.uow.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("Shop order not found")
	}
	if err := s.checkOrderAccess(ctx, callerID, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Find 分页查询订单。无订单管理权限的用户只能看到自己的订单
func (s *ShopOrderService) Find(ctx context.Context, callerID int64, req *dto.ListOrdersRequest) ([]model.ShopOrder, int64, error) {
	if callerID == 0 {
		return nil, 0, apperr.Unauthorized("Login required")
	}
	filter := repository.OrderFilter{
		ListingID: req.ListingID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	ok, err := s.authz.HasCapability(ctx, callerID, model.CapManageShopOrders)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		filter.UserID = &callerID
	}
	return s.uow.Orders.List(ctx, filter)
}

// ==================== 领取 ====================

// Claim 领取订单并发放物品。状态流转 paid -> completed 只会成功
// 一次；发放属于尽力而为，失败不回滚领取，由补发流程兜底
func (s *ShopOrderService) Claim(ctx context.Context, callerID, orderID int64) (*model.ShopOrder, error) {
	order, err := s.FindOne(ctx, callerID, orderID)
	if err != nil {
		return nil, err
	}

	listing, err := s.uow.Listings.GetByIDUnscoped(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound("Listing not found")
	}
	if listing.IsDeleted() {
		// 商品已下架，订单无法兑现，改为退款
		if err := s.CancelAsSystem(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, apperr.BadRequest("The listing for this order has been deleted. The order was canceled and refunded")
	}

	buyer, err := s.uow.Users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if buyer == nil || !buyer.HasLinkedPlayer() {
		return nil, apperr.BadRequest("Unknown player, make sure you have linked your account")
	}
	pog, err := s.uow.Pogs.GetByPlayerAndServer(ctx, *buyer.PlayerID, listing.GameServerID)
	if err != nil {
		return nil, err
	}
	if pog == nil {
		return nil, apperr.BadRequest("You have not logged in to the game server yet.")
	}
	if !pog.Online {
		return nil, apperr.BadRequest("You must be online in the game server to claim the order. If you have just logged in, please wait a few seconds and try again.")
	}

	applied, err := s.uow.Orders.UpdateStatusFrom(ctx, order.ID, model.OrderStatusPaid, model.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := s.uow.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		status := "unknown"
		if current != nil {
			status = current.Status
		}
		return nil, apperr.BadRequestf("Can only claim paid, unclaimed orders. Current status: %s", status)
	}
	order.Status = model.OrderStatusCompleted

	// 领取已落库，发放失败只记录不回滚
	if err := s.deliverer.Deliver(ctx, order, listing, pog); err != nil {
		log.Printf("[order] deliver order %d failed: %v", order.ID, err)
	}

	s.events.Emit(ctx, EventEnvelope{
		Name:         model.EventShopOrderStatusChanged,
		GameServerID: ptrInt64(listing.GameServerID),
		PlayerID:     buyer.PlayerID,
		UserID:       ptrInt64(order.UserID),
		Meta: map[string]interface{}{
			"orderId": order.ID,
			"status":  order.Status,
		},
	})
	return order, nil
}

// ==================== 取消 ====================

// Cancel 取消订单并退款
func (s *ShopOrderService) Cancel(ctx context.Context, callerID, orderID int64) (*model.ShopOrder, error) {
	order, err := s.FindOne(ctx, callerID, orderID)
	if err != nil {
		return nil, err
	}

	applied, err := s.cancelAndRefund(ctx, order)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := s.uow.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		status := "unknown"
		if current != nil {
			status = current.Status
		}
		return nil, apperr.BadRequestf("Can only cancel paid orders that weren't claimed yet. Current status: %s", status)
	}
	order.Status = model.OrderStatusCanceled
	return order, nil
}

// CancelAsSystem 以系统身份取消订单，用于商品下架或转草稿时的级联
// 取消。订单已处于终态时静默跳过
func (s *ShopOrderService) CancelAsSystem(ctx context.Context, orderID int64) error {
	order, err := s.uow.Orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperr.NotFound("Shop order not found")
	}
	if order.IsTerminal() {
		return nil
	}
	if _, err := s.cancelAndRefund(ctx, order); err != nil {
		return err
	}
	return nil
}

// cancelAndRefund 在一个事务内完成 paid -> canceled 流转和退款。
// 返回流转是否生效；未生效时不退款
func (s *ShopOrderService) cancelAndRefund(ctx context.Context, order *model.ShopOrder) (bool, error) {
	listing, err := s.uow.Listings.GetByIDUnscoped(ctx, order.ListingID)
	if err != nil {
		return false, err
	}
	if listing == nil {
		return false, apperr.NotFound("Listing not found")
	}

	buyer, err := s.uow.Users.GetByID(ctx, order.UserID)
	if err != nil {
		return false, err
	}
	if buyer == nil || !buyer.HasLinkedPlayer() {
		return false, fmt.Errorf("refund order %d: buyer %d has no linked player", order.ID, order.UserID)
	}
	pog, err := s.uow.Pogs.GetByPlayerAndServer(ctx, *buyer.PlayerID, listing.GameServerID)
	if err != nil {
		return false, err
	}
	if pog == nil {
		return false, fmt.Errorf("refund order %d: player %d not found on game server %d", order.ID, *buyer.PlayerID, listing.GameServerID)
	}

	applied := false
	err = s.uow.Transaction(ctx, func(tx *repository.ShopUnitOfWork) error {
		ok, err := tx.Orders.UpdateStatusFrom(ctx, order.ID, model.OrderStatusPaid, model.OrderStatusCanceled)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		applied = true
		refund := listing.Price * int64(order.Amount)
		return tx.Pogs.AddCurrency(ctx, pog.ID, refund)
	})
	if err != nil {
		return false, err
	}

	if applied {
		s.events.Emit(ctx, EventEnvelope{
			Name:         model.EventShopOrderStatusChanged,
			GameServerID: ptrInt64(listing.GameServerID),
			PlayerID:     buyer.PlayerID,
			UserID:       ptrInt64(order.UserID),
			Meta: map[string]interface{}{
				"orderId": order.ID,
				"status":  model.OrderStatusCanceled,
			},
		})
	}
	return applied, nil
}
