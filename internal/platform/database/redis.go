package database

import (
	"context"
	"fmt"

	"github.com/lingua-rtt/translator-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，供项目其他部分使用
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
// Redis只承载读侧报表缓存，连接失败时降级为直查数据库，不阻止启动
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		fmt.Printf("警告: 无法连接到Redis (%v)，报表缓存已降级。\n", err)
		UpdateRedisStatus(false)
		return
	}

	UpdateRedisStatus(true)
	fmt.Println("Redis 连接成功！")
}

// DeleteKeysByPrefix 安全地删除指定前缀的所有key
// 使用SCAN分批遍历，避免在大键空间上执行阻塞的KEYS命令
func DeleteKeysByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	matchPattern := prefix + "*"
	const batchSize = 500 // 每次SCAN和DEL的数量

	for {
		keys, nextCursor, err := RDB.Scan(ctx, cursor, matchPattern, batchSize).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := RDB.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}
