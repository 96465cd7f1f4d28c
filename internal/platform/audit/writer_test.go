package audit

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingua-rtt/translator-backend/pkg/lifecycle"
)

func newTestWriter(t *testing.T) (*Writer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("测试数据库迁移失败: %v", err)
	}
	return NewWriter(db), db
}

func TestWriterPersistsSubmittedEntries(t *testing.T) {
	writer, db := newTestWriter(t)

	manager := lifecycle.NewManager()
	handle, err := manager.NewServiceHandle("audit-writer")
	if err != nil {
		t.Fatalf("注册句柄失败: %v", err)
	}
	writer.Start(handle)

	for i := 0; i < 10; i++ {
		writer.Submit(Entry{
			RequestID: fmt.Sprintf("req-%d", i),
			UserEmail: "a@example.com",
			Method:    "POST",
			Endpoint:  "/api/translate",
		})
	}

	// 停机信号触发队列排空后，所有日志都应已落库
	manager.Shutdown()
	if remaining := manager.WaitWithTimeout(5 * time.Second); remaining != nil {
		t.Fatalf("写入器未在期限内退出: %v", remaining)
	}

	var count int64
	db.Model(&Entry{}).Count(&count)
	if count != 10 {
		t.Fatalf("落库日志数 = %d, want 10", count)
	}
}

func TestWriterDropsWhenQueueFull(t *testing.T) {
	writer, _ := newTestWriter(t)

	// 未启动后台goroutine，塞满队列后的投递应立即返回而不是阻塞
	for i := 0; i < submitQueueSize+10; i++ {
		writer.Submit(Entry{RequestID: fmt.Sprintf("req-%d", i)})
	}
	if len(writer.queue) != submitQueueSize {
		t.Fatalf("队列长度 = %d, want %d", len(writer.queue), submitQueueSize)
	}
}
