package controller

import (
	"errors"
	"time"

	"factfake_backend/internal/service"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DailySetController struct {
	DailySetService *service.DailySetService
}

func NewDailySetController(dailySetService *service.DailySetService) *DailySetController {
	return &DailySetController{DailySetService: dailySetService}
}

// @Summary 今日题组
// @Description 获取当前用户今日题组状态：可玩、降级、锁定、已完成或无题组
// @Tags 每日题组
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/daily-set/today [get]
func (c *DailySetController) GetToday(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.DailySetService.GetToday(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

type DailySubmitRequest struct {
	SetID   uint                       `json:"setId" binding:"required"`
	Results []service.AnswerSubmission `json:"results" binding:"required"`
}

// @Summary 提交每日题组
// @Description 一次性提交整组作答，返回得分、排名与百分位
// @Tags 每日题组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DailySubmitRequest true "提交信息"
// @Success 200 {object} util.Response
// @Router /api/daily-set/submit [post]
func (c *DailySetController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DailySubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.DailySetService.Submit(user.UserID, req.SetID, req.Results)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSetNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrSetAlreadySubmitted), errors.Is(err, util.ErrSetLocked):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotInSet), errors.Is(err, util.ErrEmptySubmission):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

type PublishSetRequest struct {
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	QuestionIDs []uint `json:"questionIds" binding:"required"`
	Language    string `json:"language"`
}

// @Summary 发布每日题组
// @Description 为指定日期编排题组，题目顺序即下发顺序
// @Tags 每日题组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PublishSetRequest true "题组信息"
// @Success 201 {object} util.Response
// @Router /api/admin/daily-sets [post]
func (c *DailySetController) PublishSet(ctx *gin.Context) {
	var req PublishSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		util.BadRequest(ctx, "invalid date, expected YYYY-MM-DD")
		return
	}

	set, err := c.DailySetService.PublishSet(date, req.QuestionIDs, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSetAlreadyPublished):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrEmptySubmission), errors.Is(err, util.ErrQuestionNotFound):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, set)
}
