package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingua-rtt/translator-backend/internal/translation"
	"github.com/lingua-rtt/translator-backend/internal/user"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&translation.Event{}, &translation.PairRollup{}, &user.User{}); err != nil {
		t.Fatalf("测试数据库迁移失败: %v", err)
	}
	if err := db.Create(&user.User{Email: "a@example.com"}).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return NewService(translation.NewStore(db)), db
}

func appendEvent(t *testing.T, db *gorm.DB, createdAt time.Time, original, translated string) {
	t.Helper()

	store := translation.NewStore(db)
	err := store.Append(&translation.Event{
		UserEmail:       "a@example.com",
		SourceLanguage:  "en",
		TargetLanguage:  "es",
		OriginalText:    original,
		TranslatedText:  translated,
		TranslationType: translation.TypeText,
		CharacterCount:  len(original),
		CreatedAt:       createdAt,
	})
	if err != nil {
		t.Fatalf("写入测试事件失败: %v", err)
	}
}

func TestServiceSearchRanksByRelevance(t *testing.T) {
	svc, db := newTestService(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// 较新的事件只命中1次，较旧的事件命中3次
	appendEvent(t, db, base, "cat cat", "gato cat")
	appendEvent(t, db, base.Add(time.Hour), "one cat here", "un gato")

	results, err := svc.Search("a@example.com", "CAT", 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("结果数 = %d, want 2", len(results))
	}
	if results[0].Relevance != 3 || results[0].Event.OriginalText != "cat cat" {
		t.Fatalf("第一名 = %+v, want 命中3次的事件", results[0])
	}
	if results[1].Relevance != 1 {
		t.Fatalf("第二名相关度 = %d, want 1", results[1].Relevance)
	}
}

func TestServiceSearchEqualRelevanceKeepsRecencyOrder(t *testing.T) {
	svc, db := newTestService(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	appendEvent(t, db, base, "old cat", "viejo gato")
	appendEvent(t, db, base.Add(time.Hour), "new cat", "nuevo gato")

	results, err := svc.Search("a@example.com", "cat", 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("结果数 = %d, want 2", len(results))
	}
	// 相关度相同时较新的在前
	if results[0].Event.OriginalText != "new cat" {
		t.Fatalf("第一名 = %q, want new cat", results[0].Event.OriginalText)
	}
}

func TestServiceListPaginates(t *testing.T) {
	svc, db := newTestService(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		appendEvent(t, db, base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("text %d", i), "texto")
	}

	events, hasMore, err := svc.List("a@example.com", translation.HistoryFilter{}, 1, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 || !hasMore {
		t.Fatalf("第一页 = (%d, %v), want (2, true)", len(events), hasMore)
	}
	if events[0].OriginalText != "text 2" {
		t.Fatalf("第一条 = %q, want 最新的 text 2", events[0].OriginalText)
	}
}

func TestServiceClearRemovesEverything(t *testing.T) {
	svc, db := newTestService(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	appendEvent(t, db, base, "hello", "hola")
	appendEvent(t, db, base.Add(time.Minute), "bye", "adiós")

	deleted, err := svc.Clear("a@example.com")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	events, hasMore, err := svc.List("a@example.com", translation.HistoryFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 0 || hasMore {
		t.Fatalf("清空后历史应为空: (%d, %v)", len(events), hasMore)
	}

	// 幂等
	deleted, err = svc.Clear("a@example.com")
	if err != nil {
		t.Fatalf("重复Clear() error = %v", err)
	}
	if deleted != 0 {
		t.Fatalf("重复清空 deleted = %d, want 0", deleted)
	}
}
