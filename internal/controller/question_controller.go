package controller

import (
	"strconv"

	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionController(questionRepo *repository.QuestionRepository) *QuestionController {
	return &QuestionController{QuestionRepo: questionRepo}
}

// @Summary 题目列表
// @Description 分页列出题目，供编辑与管理端使用
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param categoryId query int false "分类ID"
// @Param language query string false "语言"
// @Success 200 {object} util.Response
// @Router /api/admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page := 1
	limit := 20
	if p := ctx.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := ctx.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	filter := repository.QuestionFilter{Language: ctx.Query("language")}
	if v := ctx.Query("categoryId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			filter.CategoryID = uint(id)
		}
	}

	questions, total, err := c.QuestionRepo.List(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": questions, "total": total})
}

// @Summary 分类列表
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *QuestionController) ListCategories(ctx *gin.Context) {
	categories, err := c.QuestionRepo.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": categories})
}
