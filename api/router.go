package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lingua-rtt/translator-backend/internal/analytics"
	"github.com/lingua-rtt/translator-backend/internal/history"
	"github.com/lingua-rtt/translator-backend/internal/platform/audit"
	"github.com/lingua-rtt/translator-backend/internal/platform/health"
	"github.com/lingua-rtt/translator-backend/internal/translation"
	"github.com/lingua-rtt/translator-backend/internal/user"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, auditWriter *audit.Writer) {
	api := router.Group("/api")
	api.Use(audit.Middleware(auditWriter))
	{
		// 无需用户标识的路由
		api.GET("/health", health.Handler)
		api.GET("/languages", translation.GetLanguages)

		// 所有带用户标识的路由
		authed := api.Group("")
		authed.Use(user.LoadUserMiddleware())
		{
			authed.POST("/user/login", user.Login)
			authed.PUT("/user/preferences", user.HandleUpdatePreferences)

			authed.POST("/translate", translation.HandleTranslate)

			authed.GET("/dashboard", analytics.GetDashboard)
			authed.GET("/statistics", analytics.GetStatistics)
			authed.GET("/analytics/daily", analytics.GetDailyAnalytics)
			authed.GET("/analytics/languages", analytics.GetLanguageAnalytics)

			authed.GET("/history", history.GetHistory)
			authed.GET("/history/search", history.SearchHistory)
			authed.POST("/history/clear", history.ClearHistory)
		}
	}
}
