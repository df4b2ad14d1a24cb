package api

import (
	"net/http"

	"github.com/Qiuarctica/memodate-backend/internal/answer"
	"github.com/Qiuarctica/memodate-backend/internal/memory"
	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/Qiuarctica/memodate-backend/internal/platform/health"
	"github.com/Qiuarctica/memodate-backend/internal/review"
	"github.com/Qiuarctica/memodate-backend/internal/stats"
	"github.com/Qiuarctica/memodate-backend/internal/streak"
	"github.com/Qiuarctica/memodate-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 健康检查，不需要会话
		api.GET("/health", getHealth)

		// 账号相关的路由组 /api/auth
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", user.RegisterUser)
			authRoutes.POST("/login", user.LoginUser)
			authRoutes.POST("/refresh", user.RefreshUserSession)
			authRoutes.GET("/session", user.RequireSessionMiddleware(), user.GetCurrentSession)
		}

		// 纪念日记录相关的路由组 /api/memories
		memoryRoutes := api.Group("/memories", user.RequireSessionMiddleware())
		{
			memoryRoutes.GET("", memory.ListUserMemories)
			memoryRoutes.POST("", memory.CreateUserMemory)
			memoryRoutes.PUT("/:id", memory.UpdateUserMemory)
			memoryRoutes.DELETE("/:id", memory.DeleteUserMemory)
		}

		// 复习练习相关的路由组 /api/review
		reviewRoutes := api.Group("/review", user.RequireSessionMiddleware())
		{
			reviewRoutes.GET("/queue", review.GetReviewQueue)
			reviewRoutes.GET("/question-of-day", review.GetQuestionOfDay)
			reviewRoutes.POST("/answer", answer.SubmitAnswer)
		}

		// 连胜与统计
		api.GET("/streaks", user.RequireSessionMiddleware(), streak.GetUserStreaks)
		api.GET("/stats", user.RequireSessionMiddleware(), stats.GetUserStats)
	}
}

// getHealth 报告服务器与Redis缓存的当前状态
func getHealth(c *gin.Context) {
	status := "ok"
	if !health.IsReady() {
		status = "initializing"
	} else if !database.IsRedisHealthy() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"redis":  database.IsRedisHealthy(),
	})
}
