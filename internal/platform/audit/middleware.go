package audit

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是响应里回传请求ID的头部。
const RequestIDHeader = "X-Request-ID"

// 与用户中间件约定的context键，审计不依赖用户模块本身。
const emailContextKey = "userEmail"

// Middleware 为每个请求生成请求ID，并在响应完成后异步记录审计日志。
func Middleware(writer *Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		entry := Entry{
			RequestID:      requestID,
			UserEmail:      c.GetString(emailContextKey),
			Action:         c.FullPath(),
			Endpoint:       c.Request.URL.Path,
			Method:         c.Request.Method,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: int(elapsed.Milliseconds()),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
			CreatedAt:      time.Now().UTC(),
		}
		if len(c.Errors) > 0 {
			entry.ErrorMessage = c.Errors.String()
		}
		if query := c.Request.URL.Query(); len(query) > 0 {
			if data, err := json.Marshal(query); err == nil {
				entry.RequestData = string(data)
			}
		}

		writer.Submit(entry)
	}
}
