package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lingua-rtt/translator-backend/internal/platform/database"
)

// Version 是对外暴露的API版本号
const Version = "1.0.0"

// Handler 处理 GET /api/health 请求
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"redis":     database.IsRedisHealthy(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
