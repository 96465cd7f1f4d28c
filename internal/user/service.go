package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/platform/database"
	"gorm.io/gorm"
)

// GetByEmail 按邮箱查询用户，不存在时返回 gorm.ErrRecordNotFound。
func GetByEmail(email string) (*User, error) {
	var u User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreate 返回指定邮箱的用户，不存在时以缺省画像创建。
// 展示名取邮箱的本地部分，语言偏好使用建表缺省值。
func GetOrCreate(email string) (*User, error) {
	u, err := GetByEmail(email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户 %s 失败: %w", email, err)
	}

	newUser := User{
		Email:               email,
		FullName:            displayNameFor(email),
		PreferredSourceLang: "en",
		PreferredTargetLang: "es",
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		// 并发请求可能同时创建，此时回读已存在的记录
		if existing, getErr := GetByEmail(email); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("创建用户 %s 失败: %w", email, err)
	}
	return &newUser, nil
}

// TouchLogin 记录一次登录事件：确保用户存在并刷新 last_login。
func TouchLogin(email string) (*User, error) {
	u, err := GetOrCreate(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := database.DB.Model(&User{}).Where("email = ?", email).
		Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("刷新用户 %s 的登录时间失败: %w", email, err)
	}
	u.LastLogin = &now
	return u, nil
}

// UpdatePreferences 更新用户偏好的源/目标语言，nil表示保持不变。
func UpdatePreferences(email string, sourceLang, targetLang *string) (*User, error) {
	updates := map[string]interface{}{}
	if sourceLang != nil {
		updates["preferred_source_lang"] = *sourceLang
	}
	if targetLang != nil {
		updates["preferred_target_lang"] = *targetLang
	}

	if len(updates) > 0 {
		result := database.DB.Model(&User{}).Where("email = ?", email).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("更新用户 %s 的语言偏好失败: %w", email, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return GetByEmail(email)
}

// Migrate 执行本模块的表结构迁移。
func Migrate() error {
	return database.DB.AutoMigrate(&User{})
}

// displayNameFor 从邮箱推导缺省展示名。
func displayNameFor(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
