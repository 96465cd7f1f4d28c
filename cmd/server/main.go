package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lingua-rtt/translator-backend/api"
	"github.com/lingua-rtt/translator-backend/internal/analytics"
	"github.com/lingua-rtt/translator-backend/internal/history"
	"github.com/lingua-rtt/translator-backend/internal/platform/audit"
	"github.com/lingua-rtt/translator-backend/internal/platform/config"
	"github.com/lingua-rtt/translator-backend/internal/platform/database"
	"github.com/lingua-rtt/translator-backend/internal/platform/health"
	"github.com/lingua-rtt/translator-backend/internal/platform/shutdown"
	"github.com/lingua-rtt/translator-backend/internal/platform/startup"
	"github.com/lingua-rtt/translator-backend/internal/translation"
	"github.com/lingua-rtt/translator-backend/pkg/lifecycle"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 2. 初始化数据库与Redis（Redis失败只降级，不阻止启动）
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 3. 执行应用首次启动初始化流程（表结构迁移）
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 4. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 5. 装配各业务模块
	translation.SetupModule(cfg)
	analytics.SetupModule(cfg)
	history.SetupModule()

	// 6. 启动审计日志写入器与后台健康检查
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	auditWriter := audit.NewWriter(database.DB)
	auditHandle, err := gracefulMgr.NewServiceHandle("audit-writer")
	if err != nil {
		panic(fmt.Sprintf("注册审计写入器失败: %v", err))
	}
	auditWriter.Start(auditHandle)

	healthHandle, err := forcefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(fmt.Sprintf("注册健康检查器失败: %v", err))
	}
	go health.StartRedisHealthCheck(healthHandle)

	// 7. 装配HTTP层
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-Email"},
		ExposeHeaders:    []string{"Content-Length", audit.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(r, auditWriter)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("HTTP服务器启动失败: %v", err))
		}
	}()

	// 8. 阻塞等待停机信号并执行两阶段优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
