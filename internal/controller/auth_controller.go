package controller

import (
	"errors"
	"factfake_backend/internal/model"
	"factfake_backend/internal/service"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Language string `json:"language"`
}

// @Summary 注册
// @Description 创建新玩家账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Language: req.Language,
	}
	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary 登录
// @Description 校验凭据并签发JWT
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.Error(ctx, 401, "invalid credentials")
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// @Summary 个人资料
// @Description 获取当前玩家资料与进度统计
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

type UpdateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// @Summary 切换语言
// @Description 更新当前玩家的内容语言偏好
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateLanguageRequest true "语言"
// @Success 200 {object} util.Response
// @Router /api/profile/language [put]
func (c *AuthController) UpdateLanguage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateLanguage(user.UserID, req.Language); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"language": req.Language})
}
