package startup

import (
	"fmt"

	"github.com/lingua-rtt/translator-backend/internal/platform/audit"
	"github.com/lingua-rtt/translator-backend/internal/platform/database"
	"github.com/lingua-rtt/translator-backend/internal/translation"
	"github.com/lingua-rtt/translator-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口：
// 依次完成各模块的表结构迁移。
func InitializeApplication() error {
	fmt.Println("开始应用初始化...")

	if err := user.Migrate(); err != nil {
		return fmt.Errorf("用户表迁移失败: %w", err)
	}
	if err := translation.Migrate(); err != nil {
		return fmt.Errorf("翻译事件表迁移失败: %w", err)
	}
	if err := audit.Migrate(database.DB); err != nil {
		return fmt.Errorf("审计日志表迁移失败: %w", err)
	}

	fmt.Println("应用初始化完成！")
	return nil
}
