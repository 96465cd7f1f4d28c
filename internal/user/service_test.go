package user

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingua-rtt/translator-backend/internal/platform/database"
)

// useTestDB 把全局数据库替换为测试独享的内存库，测试结束后还原。
func useTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("测试数据库迁移失败: %v", err)
	}

	previous := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = previous })
}

func TestGetOrCreate(t *testing.T) {
	useTestDB(t)

	u, err := GetOrCreate("alice@example.com")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if u.FullName != "alice" {
		t.Fatalf("FullName = %q, want alice", u.FullName)
	}
	if u.PreferredSourceLang != "en" || u.PreferredTargetLang != "es" {
		t.Fatalf("缺省语言偏好 = (%q, %q)", u.PreferredSourceLang, u.PreferredTargetLang)
	}

	// 第二次调用返回同一条记录
	again, err := GetOrCreate("alice@example.com")
	if err != nil {
		t.Fatalf("重复GetOrCreate() error = %v", err)
	}
	if !again.CreatedAt.Equal(u.CreatedAt) {
		t.Fatal("重复调用不应新建用户")
	}
}

func TestTouchLoginSetsLastLogin(t *testing.T) {
	useTestDB(t)

	u, err := TouchLogin("alice@example.com")
	if err != nil {
		t.Fatalf("TouchLogin() error = %v", err)
	}
	if u.LastLogin == nil {
		t.Fatal("LastLogin 应被设置")
	}

	stored, err := GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatal("LastLogin 应已落库")
	}
}

func TestUpdatePreferences(t *testing.T) {
	useTestDB(t)

	if _, err := GetOrCreate("alice@example.com"); err != nil {
		t.Fatalf("准备用户失败: %v", err)
	}

	fr := "fr"
	u, err := UpdatePreferences("alice@example.com", nil, &fr)
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if u.PreferredSourceLang != "en" {
		t.Fatalf("未更新的字段应保持: %q", u.PreferredSourceLang)
	}
	if u.PreferredTargetLang != "fr" {
		t.Fatalf("PreferredTargetLang = %q, want fr", u.PreferredTargetLang)
	}
}

func TestUpdatePreferencesUnknownUser(t *testing.T) {
	useTestDB(t)

	de := "de"
	_, err := UpdatePreferences("ghost@example.com", &de, nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("error = %v, want gorm.ErrRecordNotFound", err)
	}
}
