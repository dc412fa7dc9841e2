package controller

import (
	"errors"
	"strconv"

	"factfake_backend/internal/repository"
	"factfake_backend/internal/service"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// @Summary 抽取下一题
// @Description 按筛选条件抽取一道未处于冷却期的已审核题目
// @Tags 单题
// @Produce json
// @Security BearerAuth
// @Param categoryId query int false "分类ID"
// @Param minDifficulty query int false "最低难度" minimum(1) maximum(5)
// @Param maxDifficulty query int false "最高难度" minimum(1) maximum(5)
// @Param language query string false "语言" default(en)
// @Success 200 {object} util.Response
// @Router /api/game/next [get]
func (c *GameController) NextQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	filter := questionFilterFromQuery(ctx)
	question, err := c.GameService.NextQuestion(user.UserID, filter)
	if err != nil {
		if errors.Is(err, util.ErrQuestionPoolEmpty) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

type SingleAnswerRequest struct {
	QuestionID       uint `json:"questionId" binding:"required"`
	Answer           bool `json:"answer"`
	TimeSpentSeconds int  `json:"timeSpentSeconds" binding:"min=0"`
}

// @Summary 单题作答
// @Description 判定真/假猜测并按难度加权计分
// @Tags 单题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SingleAnswerRequest true "作答信息"
// @Success 200 {object} util.Response
// @Router /api/game/answer [post]
func (c *GameController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SingleAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.SubmitAnswer(user.UserID, req.QuestionID, req.Answer, req.TimeSpentSeconds)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

func questionFilterFromQuery(ctx *gin.Context) repository.QuestionFilter {
	filter := repository.QuestionFilter{Language: ctx.DefaultQuery("language", "en")}
	if v := ctx.Query("categoryId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			filter.CategoryID = uint(id)
		}
	}
	if v := ctx.Query("minDifficulty"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			filter.MinDifficulty = d
		}
	}
	if v := ctx.Query("maxDifficulty"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			filter.MaxDifficulty = d
		}
	}
	return filter
}
