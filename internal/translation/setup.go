package translation

import (
	"github.com/lingua-rtt/translator-backend/internal/platform/config"
	"github.com/lingua-rtt/translator-backend/internal/platform/database"
)

// 模块级的单例，由 SetupModule 在启动时装配，Handler直接使用。
var (
	moduleStore   *Store
	moduleGateway *Gateway
)

// SetupModule 装配翻译模块：事件存储、准入限制器、上游客户端与网关。
func SetupModule(cfg *config.Config) {
	moduleStore = NewStore(database.DB)

	limiter := NewAdmissionLimiter(cfg.Translation.Cooldown())
	provider := NewHTTPProvider(cfg.Provider)

	moduleGateway = NewGateway(provider, moduleStore, limiter, GatewayOptions{
		MaxTextLength: cfg.Translation.MaxTextLength,
		MaxAttempts:   cfg.Translation.MaxAttempts,
	})
}

// ModuleStore 暴露启动时装配的事件存储，供history等模块复用。
func ModuleStore() *Store {
	return moduleStore
}
