package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/platform/database"
)

// Redis 视图缓存。Redis 不健康时读写都直接跳过，报表退化为每次现算。
const viewCachePrefix = "analytics:view:"

func viewCacheKey(userEmail, view string) string {
	return viewCachePrefix + userEmail + ":" + view
}

// getCachedView 尝试从 Redis 取出已缓存的视图，命中时反序列化进 dest。
func getCachedView(key string, dest interface{}) bool {
	if !database.IsRedisHealthy() {
		return false
	}
	payload, err := database.RDB.Get(database.Ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		// 缓存内容损坏，删掉后按未命中处理
		database.RDB.Del(database.Ctx, key)
		return false
	}
	return true
}

// setCachedView 把视图写入 Redis，失败只打日志不影响响应。
func setCachedView(key string, view interface{}, ttl time.Duration) {
	if !database.IsRedisHealthy() {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		fmt.Printf("警告: 序列化分析视图缓存失败 (%s): %v\n", key, err)
		return
	}
	if err := database.RDB.Set(database.Ctx, key, payload, ttl).Err(); err != nil {
		fmt.Printf("警告: 写入分析视图缓存失败 (%s): %v\n", key, err)
	}
}

// InvalidateUserViews 删除某用户的全部视图缓存，历史清空后调用。
func InvalidateUserViews(userEmail string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.DeleteKeysByPrefix(database.Ctx, viewCachePrefix+userEmail+":"); err != nil {
		fmt.Printf("警告: 清除用户 %s 的分析视图缓存失败: %v\n", userEmail, err)
	}
}
