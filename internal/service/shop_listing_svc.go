package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

// ==================== 依赖接口 ====================

// CategoryExpander 把分类 ID 集合展开为包含后代的集合
type CategoryExpander interface {
	ExpandIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// OrderCanceler 以系统身份取消订单并退款
type OrderCanceler interface {
	CancelAsSystem(ctx context.Context, orderID int64) error
}

// ==================== ShopListingService ====================

// ShopListingService 商品服务
type ShopListingService struct {
	listingRepo repository.ShopListingRepository
	orderRepo   repository.ShopOrderRepository
	itemRepo    repository.ItemRepository
	categories  CategoryExpander
	canceler    OrderCanceler
	events      EventSink
}

// NewShopListingService 创建商品服务
func NewShopListingService(
	listingRepo repository.ShopListingRepository,
	orderRepo repository.ShopOrderRepository,
	itemRepo repository.ItemRepository,
	categories CategoryExpander,
	events EventSink,
) *ShopListingService {
	return &ShopListingService{
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		categories:  categories,
		events:      events,
	}
}

// SetOrderCanceler 注入订单取消器。商品服务与订单服务互相引用，
// 只能在两者都构造完成后再接线
func (s *ShopListingService) SetOrderCanceler(c OrderCanceler) {
	s.canceler = c
}

// ==================== 商品条目解析 ====================

// resolveItems 把请求条目解析为商品条目。优先按物品编码在对应
// 游戏服解析，解析不到的条目直接丢弃；全部丢弃则视为无效请求
func (s *ShopListingService) resolveItems(ctx context.Context, gameServerID int64, inputs []dto.ListingItemInput) ([]model.ShopListingItem, error) {
	var codes []string
	for _, in := range inputs {
		if in.ItemID == 0 && in.Code != "" {
			codes = append(codes, in.Code)
		}
	}

	byCode := make(map[string]*model.Item)
	if len(codes) > 0 {
		items, err := s.itemRepo.FindByCodes(ctx, gameServerID, codes)
		if err != nil {
			return nil, err
		}
		for i := range items {
			byCode[strings.ToLower(items[i].Code)] = &items[i]
		}
	}

	var resolved []model.ShopListingItem
	for _, in := range inputs {
		if in.Amount <= 0 {
			continue
		}
		itemID := in.ItemID
		if itemID == 0 {
			item, ok := byCode[strings.ToLower(in.Code)]
			if !ok {
				continue
			}
			itemID = item.ID
		}
		resolved = append(resolved, model.ShopListingItem{
			ItemID:  itemID,
			Amount:  in.Amount,
			Quality: in.Quality,
		})
	}

	if len(resolved) == 0 {
		return nil, apperr.BadRequest("No valid items found")
	}
	return resolved, nil
}

// validateIcon 校验商品图标。图标以 base64 编码的图片数据存进行内，
// 允许带 data URL 前缀，空串表示清除图标
func validateIcon(icon string) error {
	if icon == "" {
		return nil
	}
	payload := icon
	if i := strings.Index(payload, "base64,"); i >= 0 {
		payload = payload[i+len("base64,"):]
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return apperr.BadRequest("Icon must be base64 encoded")
	}
	return nil
}

// ==================== 商品增删改查 ====================

// Create 创建商品
func (s *ShopListingService) Create(ctx context.Context, req *dto.CreateListingRequest) (*model.ShopListing, error) {
	if req.Price <= 0 {
		return nil, apperr.BadRequest("Price must be greater than zero")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.BadRequest("Listing name is required")
	}
	if err := validateIcon(req.Icon); err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, req.GameServerID, req.Items)
	if err != nil {
		return nil, err
	}

	listing := &model.ShopListing{
		GameServerID: req.GameServerID,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Icon:         req.Icon,
		Description:  req.Description,
		Draft:        req.Draft,
		Items:        items,
	}
	if err := s.listingRepo.Create(ctx, listing, req.CategoryIDs, req.RoleIDs); err != nil {
		return nil, err
	}
	listing.CategoryIDs = req.CategoryIDs
	listing.RoleIDs = req.RoleIDs

	s.events.Emit(ctx, EventEnvelope{
		Name:         model.EventShopListingCreated,
		GameServerID: ptrInt64(listing.GameServerID),
		Meta:         map[string]interface{}{"listingId": listing.ID, "name": listing.Name},
	})
	return listing, nil
}

// GetByID 获取商品详情
func (s *ShopListingService) GetByID(ctx context.Context, id int64) (*model.ShopListing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound("Listing not found")
	}
	return listing, nil
}

// Find 分页查询商品。分类过滤会自动包含所选分类的全部后代
func (s *ShopListingService) Find(ctx context.Context, req *dto.ListListingsRequest) ([]model.ShopListing, int64, error) {
	filter := repository.ListingFilter{
		GameServerID:  req.GameServerID,
		Draft:         req.Draft,
		NameLike:      req.Name,
		Uncategorized: req.Uncategorized,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if len(req.CategoryIDs) > 0 {
		expanded, err := s.categories.ExpandIDs(ctx, req.CategoryIDs)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryIDs = expanded
	}
	return s.listingRepo.Find(ctx, filter)
}

// Update 更新商品。已发布商品转回草稿时，取消其全部未领取订单并退款
func (s *ShopListingService) Update(ctx context.Context, id int64, req *dto.UpdateListingRequest) (*model.ShopListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil && *req.Price <= 0 {
		return nil, apperr.BadRequest("Price must be greater than zero")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.BadRequest("Listing name is required")
	}
	if req.Icon != nil {
		if err := validateIcon(*req.Icon); err != nil {
			return nil, err
		}
	}

	patch := repository.ListingPatch{
		Name:        req.Name,
		Price:       req.Price,
		Icon:        req.Icon,
		Description: req.Description,
		Draft:       req.Draft,
		CategoryIDs: req.CategoryIDs,
		RoleIDs:     req.RoleIDs,
	}
	if req.Items != nil {
		items, err := s.resolveItems(ctx, listing.GameServerID, req.Items)
		if err != nil {
			return nil, err
		}
		patch.Items = items
	}

	// 发布 -> 草稿：先级联取消未领取订单，商品对买家不再可见
	if req.Draft != nil && *req.Draft && !listing.Draft {
		if err := s.cancelPaidOrders(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, EventEnvelope{
		Name:         model.EventShopListingUpdated,
		GameServerID: ptrInt64(updated.GameServerID),
		Meta:         map[string]interface{}{"listingId": updated.ID, "name": updated.Name},
	})
	return updated, nil
}

// Delete 软删除商品，先级联取消未领取订单并退款
func (s *ShopListingService) Delete(ctx context.Context, id int64) error {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.cancelPaidOrders(ctx, id); err != nil {
		return err
	}
	if err := s.listingRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.events.Emit(ctx, EventEnvelope{
		Name:         model.EventShopListingDeleted,
		GameServerID: ptrInt64(listing.GameServerID),
		Meta:         map[string]interface{}{"listingId": listing.ID, "name": listing.Name},
	})
	return nil
}

// cancelPaidOrders 取消商品下全部已支付订单。单个订单失败只记日志，
// 不阻断其余订单的取消，也不阻断触发它的更新或删除
func (s *ShopListingService) cancelPaidOrders(ctx context.Context, listingID int64) error {
	if s.canceler == nil {
		return fmt.Errorf("order canceler not wired")
	}
	orders, err := s.orderRepo.ListPaidByListing(ctx, listingID)
	if err != nil {
		return err
	}
	failures := settleAll(len(orders), func(i int) error {
		return s.canceler.CancelAsSystem(ctx, orders[i].ID)
	})
	for _, f := range failures {
		log.Printf("[listing] cancel order %d for listing %d failed: %v",
			orders[f.Index].ID, listingID, f.Err)
	}
	return nil
}

// ==================== 角色可见性 ====================

// AddRole 为商品追加可见角色
func (s *ShopListingService) AddRole(ctx context.Context, listingID, roleID int64) error {
	if _, err := s.GetByID(ctx, listingID); err != nil {
		return err
	}
	return s.listingRepo.AddRole(ctx, listingID, roleID)
}

// RemoveRole 移除商品的可见角色
func (s *ShopListingService) RemoveRole(ctx context.Context, listingID, roleID int64) error {
	if _, err := s.GetByID(ctx, listingID); err != nil {
		return err
	}
	return s.listingRepo.RemoveRole(ctx, listingID, roleID)
}

// ==================== 批量导入 ====================

// ImportResult 导入结果
type ImportResult struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

// Import 批量导入商品。Replace 为 true 时先下架该游戏服的现有商品，
// Draft 为 true 时导入的商品全部落为草稿
func (s *ShopListingService) Import(ctx context.Context, req *dto.ImportListingsRequest) (*ImportResult, error) {
	if len(req.Listings) == 0 {
		return nil, apperr.BadRequest("No listings to import")
	}

	result := &ImportResult{}
	if req.Replace {
		ids, err := s.listingRepo.ListIDsByGameServer(ctx, req.GameServerID)
		if err != nil {
			return nil, err
		}
		failures := settleAll(len(ids), func(i int) error {
			return s.Delete(ctx, ids[i])
		})
		for _, f := range failures {
			log.Printf("[listing] import: replace existing listing %d failed: %v", ids[f.Index], f.Err)
		}
		result.Deleted = len(ids) - len(failures)
	}

	// 逐行导入，单行失败只记日志，其余行照常落库
	failures := settleAll(len(req.Listings), func(i int) error {
		in := req.Listings[i]
		in.GameServerID = req.GameServerID
		if req.Draft {
			in.Draft = true
		}
		_, err := s.Create(ctx, &in)
		return err
	})
	for _, f := range failures {
		log.Printf("[listing] import listing %q failed: %v", req.Listings[f.Index].Name, f.Err)
	}
	result.Created = len(req.Listings) - len(failures)
	return result, nil
}
