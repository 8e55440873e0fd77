package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

// 分类数量上限，防止层级树无限膨胀
const maxCategoryCount = 100

// 分类名仅允许字母、数字、下划线、连字符和空格
var categoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// ==================== ShopCategoryService ====================

// ShopCategoryService 商品分类服务，维护分类层级树与商品关联
type ShopCategoryService struct {
	categoryRepo repository.ShopCategoryRepository
	listingRepo  repository.ShopListingRepository
	events       EventSink
}

// NewShopCategoryService 创建分类服务
func NewShopCategoryService(
	categoryRepo repository.ShopCategoryRepository,
	listingRepo repository.ShopListingRepository,
	events EventSink,
) *ShopCategoryService {
	return &ShopCategoryService{
		categoryRepo: categoryRepo,
		listingRepo:  listingRepo,
		events:       events,
	}
}

// ==================== 校验 ====================

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.BadRequest("Category name is required")
	}
	if len(name) > 50 {
		return apperr.BadRequest("Category name must be 50 characters or less")
	}
	if !categoryNamePattern.MatchString(name) {
		return apperr.BadRequest("Category name can only contain letters, numbers, spaces, hyphens and underscores")
	}
	return nil
}

// checkParent 确认父分类存在
func (s *ShopCategoryService) checkParent(ctx context.Context, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.categoryRepo.GetByID(ctx, *parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperr.NotFound("Parent category not found")
	}
	return nil
}

// ==================== 分类增删改查 ====================

// Create 创建分类。同层级下名称不区分大小写唯一
func (s *ShopCategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*model.ShopCategory, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	total, err := s.categoryRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	if total >= maxCategoryCount {
		return nil, apperr.BadRequestf("Maximum category limit (%d) reached for this domain", maxCategoryCount)
	}

	exists, err := s.categoryRepo.ExistsSiblingName(ctx, name, req.ParentID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("A category with this name already exists at this level")
	}

	category := &model.ShopCategory{
		Name:     name,
		ParentID: req.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID 获取分类详情（含直接子分类）
func (s *ShopCategoryService) GetByID(ctx context.Context, id int64) (*model.ShopCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category not found")
	}
	return category, nil
}

// ListAll 获取全部分类的平铺列表
func (s *ShopCategoryService) ListAll(ctx context.Context) ([]model.ShopCategory, error) {
	return s.categoryRepo.ListAll(ctx)
}

// Tree 构建完整分类树，附带每个分类的商品数
func (s *ShopCategoryService) Tree(ctx context.Context) ([]dto.CategoryVO, error) {
	all, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(all))
	for _, c := range all {
		n, err := s.categoryRepo.ListingCount(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		counts[c.ID] = n
	}

	children := make(map[int64][]model.ShopCategory)
	var roots []model.ShopCategory
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(nodes []model.ShopCategory) []dto.CategoryVO
	build = func(nodes []model.ShopCategory) []dto.CategoryVO {
		vos := make([]dto.CategoryVO, 0, len(nodes))
		for _, n := range nodes {
			vos = append(vos, dto.CategoryVO{
				ID:           n.ID,
				Name:         n.Name,
				ParentID:     n.ParentID,
				ListingCount: counts[n.ID],
				Children:     build(children[n.ID]),
			})
		}
		return vos
	}
	return build(roots), nil
}

// Update 重命名分类
func (s *ShopCategoryService) Update(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*model.ShopCategory, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateCategoryName(name); err != nil {
			return nil, err
		}
		exists, err := s.categoryRepo.ExistsSiblingName(ctx, name, category.ParentID, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.BadRequest("A category with this name already exists at this level")
		}
		category.Name = name
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Move 把分类移到新的父级，parentID 为 nil 表示移到根层级。
// 拒绝移动到自身或自身的后代，避免形成环
func (s *ShopCategoryService) Move(ctx context.Context, id int64, parentID *int64) (*model.ShopCategory, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if *parentID == id {
			return nil, apperr.BadRequest("Cannot move a category to itself")
		}
		if err := s.checkParent(ctx, parentID); err != nil {
			return nil, err
		}
		descendants, err := s.DescendantIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d == *parentID {
				return nil, apperr.BadRequest("Cannot create circular category hierarchy")
			}
		}
	}

	exists, err := s.categoryRepo.ExistsSiblingName(ctx, category.Name, parentID, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("A category with this name already exists at this level")
	}

	if err := s.categoryRepo.UpdateParent(ctx, id, parentID); err != nil {
		return nil, err
	}
	category.ParentID = parentID
	return category, nil
}

// Delete 删除分类。子分类提升到根层级，商品关联一并清除
func (s *ShopCategoryService) Delete(ctx context.Context, id int64) error {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.categoryRepo.ListByParent(ctx, &category.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.categoryRepo.UpdateParent(ctx, child.ID, nil); err != nil {
			return err
		}
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ==================== 层级展开 ====================

// DescendantIDs 返回分类自身及其全部后代的 ID 集合。
// visited 集合保证遇到脏数据形成的环时也能终止
func (s *ShopCategoryService) DescendantIDs(ctx context.Context, id int64) ([]int64, error) {
	all, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]int64, len(all))
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	visited := map[int64]bool{id: true}
	result := []int64{id}
	queue := []int64{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result, nil
}

// ExpandIDs 把一组分类 ID 展开为包含全部后代的去重集合
func (s *ShopCategoryService) ExpandIDs(ctx context.Context, ids []int64) ([]int64, error) {
	seen := make(map[int64]bool)
	var expanded []int64
	for _, id := range ids {
		sub, err := s.DescendantIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range sub {
			if !seen[d] {
				seen[d] = true
				expanded = append(expanded, d)
			}
		}
	}
	return expanded, nil
}

// ==================== 批量关联 ====================

// BulkAssign 批量为商品增删分类关联，整体在一个事务内完成
func (s *ShopCategoryService) BulkAssign(ctx context.Context, req *dto.BulkAssignCategoriesRequest) error {
	if len(req.ListingIDs) == 0 {
		return apperr.BadRequest("listing_ids is required")
	}

	// 先校验所有分类存在，避免半途失败
	for _, cid := range append(append([]int64{}, req.AddCategoryIDs...), req.RemoveCategoryIDs...) {
		category, err := s.categoryRepo.GetByID(ctx, cid)
		if err != nil {
			return err
		}
		if category == nil {
			return apperr.NotFoundf("Category not found: %d", cid)
		}
	}
	for _, lid := range req.ListingIDs {
		listing, err := s.listingRepo.GetByID(ctx, lid)
		if err != nil {
			return err
		}
		if listing == nil {
			return apperr.NotFoundf("Listing not found: %d", lid)
		}
	}

	err := s.categoryRepo.Transaction(ctx, func(txRepo repository.ShopCategoryRepository) error {
		if len(req.AddCategoryIDs) > 0 {
			if err := txRepo.AddAssociations(ctx, req.ListingIDs, req.AddCategoryIDs); err != nil {
				return err
			}
		}
		if len(req.RemoveCategoryIDs) > 0 {
			if err := txRepo.RemoveAssociations(ctx, req.ListingIDs, req.RemoveCategoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bulk assign categories: %w", err)
	}
	return nil
}
