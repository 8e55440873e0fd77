package service

import (
	"context"
	"testing"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/middleware"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
	"gameshop_v1_202608/pkg/apperr"
)

func setupUserService(t *testing.T) (*UserService, repository.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	pogRepo := repository.NewPlayerOnGameServerRepository(db)
	return NewUserService(userRepo, pogRepo), userRepo
}

func TestUserRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.Role != model.UserRoleUser {
		t.Errorf("角色 = %s, want %s", user.Role, model.UserRoleUser)
	}
	if user.Password == "secret123" {
		t.Error("密码应当以散列形式存储")
	}

	// 用户名重复
	if _, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "other"}); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("重复注册错误 = %v, want BadRequest", err)
	}

	tokens, logged, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("登录用户 = %d, want %d", logged.ID, user.ID)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("登录应当返回完整的令牌对")
	}

	claims, err := middleware.ParseToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("解析访问令牌失败: %v", err)
	}
	if claims.UserID != user.ID || claims.Subject != "access" {
		t.Errorf("令牌声明 UserID=%d Subject=%s", claims.UserID, claims.Subject)
	}
}

func TestUserLogin_Rejections(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 密码错误
	if _, _, err := svc.Login(ctx, &dto.LoginRequest{Username: "bob", Password: "wrong"}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("错误密码登录 = %v, want Unauthorized", err)
	}
	// 用户不存在，返回与密码错误相同的提示
	if _, _, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "x"}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("不存在用户登录 = %v, want Unauthorized", err)
	}
}

func TestUserRefreshToken(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Username: "carol", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	tokens, _, err := svc.Login(ctx, &dto.LoginRequest{Username: "carol", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("刷新令牌失败: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应当返回新的访问令牌")
	}

	// 访问令牌不能当刷新令牌使
	if _, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken}); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("用访问令牌刷新 = %v, want Unauthorized", err)
	}
}

func TestUserLinkPlayer(t *testing.T) {
	svc, userRepo := setupUserService(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, &dto.RegisterRequest{Username: "dave", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	b, err := svc.Register(ctx, &dto.RegisterRequest{Username: "erin", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if err := svc.LinkPlayer(ctx, a.ID, 42); err != nil {
		t.Fatalf("绑定角色失败: %v", err)
	}
	// 重复绑定同一角色到自己是幂等的
	if err := svc.LinkPlayer(ctx, a.ID, 42); err != nil {
		t.Fatalf("重复绑定失败: %v", err)
	}
	// 另一个用户不能抢占已绑定的角色
	if err := svc.LinkPlayer(ctx, b.ID, 42); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Errorf("抢占绑定 = %v, want BadRequest", err)
	}

	linked, err := userRepo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if linked.PlayerID == nil || *linked.PlayerID != 42 {
		t.Errorf("PlayerID = %v, want 42", linked.PlayerID)
	}
}
