package history

import (
	"github.com/lingua-rtt/translator-backend/internal/translation"
)

var moduleService *Service

// SetupModule 初始化历史模块，复用翻译模块的事件存储。
func SetupModule() {
	moduleService = NewService(translation.ModuleStore())
}
