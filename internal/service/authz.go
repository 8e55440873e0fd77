package service

import (
	"context"

	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
)

// ==================== AuthzService ====================

// AuthzService 权限判定。管理员持有全部能力，普通用户不持有任何
// 管理类能力
type AuthzService struct {
	userRepo repository.UserRepository
}

// NewAuthzService 创建权限服务
func NewAuthzService(userRepo repository.UserRepository) *AuthzService {
	return &AuthzService{userRepo: userRepo}
}

// HasCapability 判断用户是否持有指定能力。用户不存在或已禁用时
// 一律返回 false
func (s *AuthzService) HasCapability(ctx context.Context, userID int64, capability string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || user.Status != model.UserStatusActive {
		return false, nil
	}
	switch capability {
	case model.CapManageShopOrders, model.CapManageShopListings:
		return user.Role == model.UserRoleAdmin, nil
	default:
		return false, nil
	}
}
