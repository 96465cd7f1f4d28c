package analytics

import (
	"github.com/lingua-rtt/translator-backend/internal/platform/config"
	"github.com/lingua-rtt/translator-backend/internal/platform/database"
)

var moduleService *Service

// SetupModule 初始化分析模块的依赖。
func SetupModule(cfg *config.Config) {
	moduleService = NewService(newRepository(database.DB), cfg.Analytics.CacheTTL())
}
