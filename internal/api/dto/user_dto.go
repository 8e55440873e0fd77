package dto

// ==================== 用户请求 ====================

// LoginRequest 登录
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新令牌
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterRequest 注册
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6"`
}

// LinkPlayerRequest 绑定游戏角色
type LinkPlayerRequest struct {
	PlayerID int64 `json:"player_id" binding:"required"`
}

// ==================== 用户响应 ====================

// TokenPair 登录与刷新的令牌响应
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserInfo 用户视图
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	PlayerID *int64 `json:"player_id,omitempty"`
}
