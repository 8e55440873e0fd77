package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

func newCategoryService(db *gorm.DB) *ShopCategoryService {
	return NewShopCategoryService(
		repository.NewShopCategoryRepository(db),
		repository.NewShopListingRepository(db),
		&stubEvents{},
	)
}

func mustCreateCategory(t *testing.T, svc *ShopCategoryService, name string, parentID *int64) *model.ShopCategory {
	t.Helper()
	category, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: name, ParentID: parentID})
	if err != nil {
		t.Fatalf("创建分类 %q 失败: %v", name, err)
	}
	return category
}

func TestCategoryCreate_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	cases := []struct {
		name    string
		reqName string
	}{
		{"空名称", "   "},
		{"超长名称", strings.Repeat("a", 51)},
		{"非法字符", "weapons!"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: tt.reqName})
			if !apperr.IsKind(err, apperr.KindBadRequest) {
				t.Errorf("Create(%q) err = %v, want BadRequest", tt.reqName, err)
			}
		})
	}

	// 合法字符集：字母数字、空格、连字符、下划线
	if _, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Melee Weapons_2-b"}); err != nil {
		t.Errorf("合法名称被拒绝: %v", err)
	}
}

func TestCategoryCreate_SiblingNameUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	root := mustCreateCategory(t, svc, "Weapons", nil)

	// 同层级重名（不区分大小写）被拒绝
	_, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "weapons"})
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("同层级重名 err = %v, want BadRequest", err)
	}

	// 不同层级允许同名
	if _, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Weapons", ParentID: &root.ID}); err != nil {
		t.Errorf("子层级同名被拒绝: %v", err)
	}
}

func TestCategoryCreate_MissingParent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)

	missing := int64(999)
	_, err := svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "Orphan", ParentID: &missing})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("父分类不存在 err = %v, want NotFound", err)
	}
}

func TestCategoryCreate_Limit(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	// 直接灌满上限
	for i := 0; i < maxCategoryCount; i++ {
		if err := db.Create(&model.ShopCategory{Name: fmt.Sprintf("cat-%d", i)}).Error; err != nil {
			t.Fatalf("预置分类失败: %v", err)
		}
	}

	_, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "OverLimit"})
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("超出上限 err = %v, want BadRequest", err)
	}
}

func TestCategoryMove_RejectsSelfAndCycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	a := mustCreateCategory(t, svc, "A", nil)
	b := mustCreateCategory(t, svc, "B", &a.ID)
	c := mustCreateCategory(t, svc, "C", &b.ID)

	// 移动到自身
	if _, err := svc.Move(ctx, a.ID, &a.ID); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("移动到自身 err = %v, want BadRequest", err)
	}
	// 移动到自己的后代
	if _, err := svc.Move(ctx, a.ID, &c.ID); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("移动到后代 err = %v, want BadRequest", err)
	}
	// 合法移动：C 提升到根
	moved, err := svc.Move(ctx, c.ID, nil)
	if err != nil {
		t.Fatalf("合法移动失败: %v", err)
	}
	if moved.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", moved.ParentID)
	}
}

func TestCategoryDelete_ReparentsChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	parent := mustCreateCategory(t, svc, "Parent", nil)
	child := mustCreateCategory(t, svc, "Child", &parent.ID)

	// 挂一个商品关联，删除时应一并清理
	listing := seedListing(t, db, 1, 100, false, model.ShopListingItem{ItemID: 1, Amount: 1})
	db.Create(&model.ShopListingCategory{ListingID: listing.ID, CategoryID: parent.ID})

	if err := svc.Delete(ctx, parent.ID); err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}

	var reloaded model.ShopCategory
	if err := db.First(&reloaded, child.ID).Error; err != nil {
		t.Fatalf("子分类丢失: %v", err)
	}
	if reloaded.ParentID != nil {
		t.Errorf("子分类未提升到根: ParentID = %v", reloaded.ParentID)
	}

	var assocCount int64
	db.Model(&model.ShopListingCategory{}).Where("category_id = ?", parent.ID).Count(&assocCount)
	if assocCount != 0 {
		t.Errorf("商品关联未清理, 剩余 %d", assocCount)
	}
}

func TestCategoryDescendantIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	root := mustCreateCategory(t, svc, "Root", nil)
	mid := mustCreateCategory(t, svc, "Mid", &root.ID)
	leaf := mustCreateCategory(t, svc, "Leaf", &mid.ID)
	mustCreateCategory(t, svc, "Other", nil)

	ids, err := svc.DescendantIDs(ctx, root.ID)
	if err != nil {
		t.Fatalf("DescendantIDs 失败: %v", err)
	}
	want := map[int64]bool{root.ID: true, mid.ID: true, leaf.ID: true}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want 3 个", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("意外的 id %d", id)
		}
	}
}

func TestCategoryDescendantIDs_CycleTerminates(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	a := mustCreateCategory(t, svc, "A", nil)
	b := mustCreateCategory(t, svc, "B", &a.ID)
	// 绕过服务层校验，直接在数据库里制造环
	db.Exec("UPDATE shop_categories SET parent_id = ? WHERE id = ?", b.ID, a.ID)

	ids, err := svc.DescendantIDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("环数据下 DescendantIDs 失败: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want 2 个", ids)
	}
}

func TestCategoryBulkAssign(t *testing.T) {
	db := setupTestDB(t)
	svc := newCategoryService(db)
	ctx := context.Background()

	c1 := mustCreateCategory(t, svc, "C1", nil)
	c2 := mustCreateCategory(t, svc, "C2", nil)
	l1 := seedListing(t, db, 1, 100, false, model.ShopListingItem{ItemID: 1, Amount: 1})
	l2 := seedListing(t, db, 1, 100, false, model.ShopListingItem{ItemID: 1, Amount: 1})
	db.Create(&model.ShopListingCategory{ListingID: l1.ID, CategoryID: c2.ID})

	err := svc.BulkAssign(ctx, &dto.BulkAssignCategoriesRequest{
		ListingIDs:        []int64{l1.ID, l2.ID},
		AddCategoryIDs:    []int64{c1.ID},
		RemoveCategoryIDs: []int64{c2.ID},
	})
	if err != nil {
		t.Fatalf("BulkAssign 失败: %v", err)
	}

	var c1Count, c2Count int64
	db.Model(&model.ShopListingCategory{}).Where("category_id = ?", c1.ID).Count(&c1Count)
	db.Model(&model.ShopListingCategory{}).Where("category_id = ?", c2.ID).Count(&c2Count)
	if c1Count != 2 {
		t.Errorf("c1 关联数 = %d, want 2", c1Count)
	}
	if c2Count != 0 {
		t.Errorf("c2 关联数 = %d, want 0", c2Count)
	}

	// 引用不存在的分类整体拒绝
	missing := int64(999)
	err = svc.BulkAssign(ctx, &dto.BulkAssignCategoriesRequest{
		ListingIDs:     []int64{l1.ID},
		AddCategoryIDs: []int64{missing},
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("不存在的分类 err = %v, want NotFound", err)
	}
}
