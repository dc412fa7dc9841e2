package app

import (
	"factfake_backend/docs"
	"factfake_backend/internal/config"
	"factfake_backend/internal/middleware"
	"factfake_backend/internal/model"
	"factfake_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile/language", c.auth.UpdateLanguage)

		game := authGroup.Group("/game")
		{
			game.GET("/next", c.game.NextQuestion)
			game.POST("/answer", c.game.SubmitAnswer)
		}

		daily := authGroup.Group("/daily-set")
		{
			daily.GET("/today", c.dailySet.GetToday)
			daily.POST("/submit", c.dailySet.Submit)
		}

		collections := authGroup.Group("/collections")
		{
			collections.GET("", c.collection.List)
			collections.POST("/start", c.collection.Start)
			collections.POST("/submit", c.collection.Submit)
			collections.GET("/progress", c.collection.RecentProgress)
		}

		authGroup.GET("/leaderboard", c.leaderboard.GetStandings)
		authGroup.GET("/categories", c.question.ListCategories)
	}

	// 3. 编辑/管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Editor))
	{
		adminGroup.GET("/questions", c.question.List)
		adminGroup.POST("/daily-sets", c.dailySet.PublishSet)
	}
}
