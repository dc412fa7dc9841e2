package controller

import (
	"errors"
	"strconv"

	"factfake_backend/internal/service"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	CollectionService *service.CollectionService
}

func NewCollectionController(collectionService *service.CollectionService) *CollectionController {
	return &CollectionController{CollectionService: collectionService}
}

// @Summary 合集列表
// @Description 列出可玩的编排合集
// @Tags 合集
// @Produce json
// @Security BearerAuth
// @Param language query string false "语言" default(en)
// @Success 200 {object} util.Response
// @Router /api/collections [get]
func (c *CollectionController) List(ctx *gin.Context) {
	collections, err := c.CollectionService.List(ctx.DefaultQuery("language", "en"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": collections})
}

// @Summary 开始合集会话
// @Description 按分类、难度或编排合集抽题并签发限时会话
// @Tags 合集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StartSessionRequest true "会话参数"
// @Success 201 {object} util.Response
// @Router /api/collections/start [post]
func (c *CollectionController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CollectionService.Start(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCollectionNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionPoolEmpty):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

type CollectionSubmitRequest struct {
	SessionID string                     `json:"sessionId" binding:"required"`
	Results   []service.AnswerSubmission `json:"results" binding:"required"`
}

// @Summary 提交合集会话
// @Description 一次性提交整批作答，会话随提交销毁
// @Tags 合集
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CollectionSubmitRequest true "提交信息"
// @Success 200 {object} util.Response
// @Router /api/collections/submit [post]
func (c *CollectionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CollectionSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CollectionService.Submit(ctx.Request.Context(), user.UserID, req.SessionID, req.Results)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrSessionOwnership):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrQuestionNotInSession), errors.Is(err, util.ErrEmptySubmission):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 最近合集成绩
// @Description 当前用户最近的合集完成记录
// @Tags 合集
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量上限" default(20)
// @Success 200 {object} util.Response
// @Router /api/collections/progress [get]
func (c *CollectionController) RecentProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 20
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	progress, err := c.CollectionService.RecentProgress(user.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": progress})
}
