package controller

import (
	"factfake_backend/internal/service"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 排行榜
// @Description 按时间窗口与指标查询前100名及当前用户名次
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Param window query string false "时间窗口" Enums(weekly, monthly, yearly, all) default(weekly)
// @Param metric query string false "排行指标" Enums(correct, score, streak) default(correct)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetStandings(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	window := service.Window(ctx.DefaultQuery("window", string(service.WindowWeekly)))
	switch window {
	case service.WindowWeekly, service.WindowMonthly, service.WindowYearly, service.WindowAllTime:
	default:
		util.BadRequest(ctx, "unknown window: "+string(window))
		return
	}

	metric := service.Metric(ctx.DefaultQuery("metric", string(service.MetricCorrect)))
	switch metric {
	case service.MetricCorrect, service.MetricScore, service.MetricStreak:
	default:
		util.BadRequest(ctx, "unknown metric: "+string(metric))
		return
	}

	standings, err := c.LeaderboardService.GetStandings(user.UserID, window, metric)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, standings)
}
