package controller

import (
	"github.com/gin-gonic/gin"

	"gameshop_v1_202608/internal/api/dto"
	"gameshop_v1_202608/internal/middleware"
	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/service"
)

// UserController 用户接口
type UserController struct {
	userService *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

func toUserInfo(u *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		PlayerID: u.PlayerID,
	}
}

// ==================== 认证接口 ====================

// Login 登录
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	tokens, user, err := ctrl.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"tokens": tokens, "user": toUserInfo(user)})
}

// RefreshToken 刷新令牌
func (ctrl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	tokens, err := ctrl.userService.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tokens)
}

// Register 注册
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	user, err := ctrl.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toUserInfo(user))
}

// ==================== 当前用户 ====================

// Me 获取当前用户信息
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.userService.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toUserInfo(user))
}

// LinkPlayer 绑定游戏角色
func (ctrl *UserController) LinkPlayer(c *gin.Context) {
	var req dto.LinkPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if err := ctrl.userService.LinkPlayer(c.Request.Context(), middleware.GetUserID(c), req.PlayerID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
