package user

import (
	"time"
)

// User 定义了用户在关系库中的持久化模型。
// 账号生命周期由外部的认证服务负责，这里只保存画像和聚合计数。
type User struct {
	// Email 是用户的主键，来自外部认证服务传入的身份头。
	Email string `gorm:"primarykey;size:255"`

	// FullName 是展示用的名称，缺省取邮箱的本地部分。
	FullName string `gorm:"size:255;not null"`

	// 用户偏好的默认语言对。
	PreferredSourceLang string `gorm:"size:10;default:en"`
	PreferredTargetLang string `gorm:"size:10;default:es"`

	// TotalTranslations 与 TotalCharacters 随每次成功的翻译事件原子递增，
	// 任何时刻都等于该用户事件表中的行数与字符总数。
	TotalTranslations int   `gorm:"default:0"`
	TotalCharacters   int64 `gorm:"default:0"`

	// LastLogin 由登录事件更新。
	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
