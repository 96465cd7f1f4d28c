package analytics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lingua-rtt/translator-backend/internal/user"
)

const (
	defaultDailyDays = 30
	maxDailyDays     = 365
)

func requireEmail(c *gin.Context) (string, bool) {
	email := user.EmailFromContext(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "缺少用户标识"})
		return "", false
	}
	return email, true
}

func writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "用户不存在"})
		return
	}
	fmt.Printf("错误: 生成分析视图失败: %v\n", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "服务暂时不可用"})
}

// GetDashboard 处理 GET /api/dashboard
func GetDashboard(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	view, err := moduleService.Dashboard(email)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStatistics 处理 GET /api/statistics?period=30
func GetStatistics(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	period := c.DefaultQuery("period", "30")
	if !ValidPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "period 必须是 7、30、90 或 all"})
		return
	}
	view, err := moduleService.Statistics(email, period)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDailyAnalytics 处理 GET /api/analytics/daily?days=30
func GetDailyAnalytics(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	days := defaultDailyDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "days 必须是正整数"})
			return
		}
		days = parsed
	}
	if days > maxDailyDays {
		days = maxDailyDays
	}
	view, err := moduleService.DailyAnalytics(email, days)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetLanguageAnalytics 处理 GET /api/analytics/languages
func GetLanguageAnalytics(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	view, err := moduleService.LanguageAnalytics(email)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
