package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/middleware"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

// ==================== UserService ====================

// UserService 用户服务
type UserService struct {
	userRepo repository.UserRepository
	pogRepo  repository.PlayerOnGameServerRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, pogRepo repository.PlayerOnGameServerRepository) *UserService {
	return &UserService{userRepo: userRepo, pogRepo: pogRepo}
}

// ==================== 认证相关 ====================

// Login 用户登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPair, *model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.Unauthorized("Invalid username or password")
	}
	if user.Status != model.UserStatusActive {
		return nil, nil, apperr.Unauthorized("Account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, apperr.Unauthorized("Invalid username or password")
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, nil, err
	}
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	cfg := middleware.GetJWTConfig()
	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(cfg.AccessTokenTTL.Seconds()),
	}, user, nil
}

// RefreshToken 刷新 Token
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != model.UserStatusActive {
		return nil, apperr.Unauthorized("Account disabled")
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	cfg := middleware.GetJWTConfig()
	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Register 注册普通用户
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: req.Username,
		Password: string(hashed),
		Role:     model.UserRoleUser,
		Status:   model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ==================== 角色绑定 ====================

// LinkPlayer 把当前用户绑定到游戏角色，下单前必须完成绑定
func (s *UserService) LinkPlayer(ctx context.Context, userID, playerID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	taken, err := s.userRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return err
	}
	if taken != nil && taken.ID != userID {
		return apperr.BadRequest("Player is already linked to another user")
	}
	return s.userRepo.LinkPlayer(ctx, userID, playerID)
}

// GetByID 获取用户
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}
