package health

import (
	"context"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/platform/database"
	"github.com/lingua-rtt/translator-backend/pkg/lifecycle"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// PerformCheck 执行一次Redis健康检查并更新全局状态。
// 缓存是纯粹的读加速层，检查失败只会让读路径降级为直查数据库。
func PerformCheck() {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()

	err := database.RDB.Ping(ctx).Err()
	database.UpdateRedisStatus(err == nil)
}

// StartRedisHealthCheck 定期、阻塞式地执行健康检查，收到停机信号后退出。
// 应在独立的Goroutine中调用。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	defer handle.Close()

	// 使用 time.Timer 实现阻塞式循环
	timer := time.NewTimer(checkInterval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			PerformCheck()             // 执行检查
			timer.Reset(checkInterval) // 重置定时器，从现在开始重新计时
		case <-handle.Done():
			return
		}
	}
}
