package translation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/platform/database"
	"github.com/lingua-rtt/translator-backend/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxPageSize 是历史分页的单页上限。
const MaxPageSize = 100

// Store 封装事件账本及其派生聚合的全部写入与查询。
type Store struct {
	db *gorm.DB
}

// NewStore 创建一个事件存储。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append 以单个事务落盘一次成功的翻译：
// 插入事件行、更新对应语言对的累积聚合、递增用户总计数。
// 任一步失败则整体回滚，调用方必须把这次翻译按失败上报。
func (s *Store) Append(event *Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("插入翻译事件失败: %w", err)
		}

		if err := upsertRollup(tx, event); err != nil {
			return err
		}

		// 同一事务内递增用户聚合计数，保持与事件行数始终一致
		result := tx.Model(&user.User{}).Where("email = ?", event.UserEmail).
			UpdateColumns(map[string]interface{}{
				"total_translations": gorm.Expr("total_translations + 1"),
				"total_characters":   gorm.Expr("total_characters + ?", event.CharacterCount),
			})
		if result.Error != nil {
			return fmt.Errorf("递增用户计数失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("用户 %s 不存在，无法登记翻译事件", event.UserEmail)
		}

		return nil
	})
}

// upsertRollup 在事务内更新 (用户, 源, 目标) 的累积聚合。
// 行级锁让同一用户的并发写入正确串行，不同语言对互不阻塞。
func upsertRollup(tx *gorm.DB, event *Event) error {
	confidence := 0.0
	if event.ConfidenceScore != nil {
		confidence = *event.ConfidenceScore
	}

	var rollup PairRollup
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_email = ? AND source_language = ? AND target_language = ?",
			event.UserEmail, event.SourceLanguage, event.TargetLanguage).
		First(&rollup).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		rollup = PairRollup{
			UserEmail:      event.UserEmail,
			SourceLanguage: event.SourceLanguage,
			TargetLanguage: event.TargetLanguage,
			UsageCount:     1,
			CharacterCount: int64(event.CharacterCount),
			TotalTimeMs:    int64(event.TranslationTimeMs),
			AvgConfidence:  confidence,
			DaysUsed:       1,
			FirstUsed:      event.CreatedAt,
			LastUsed:       event.CreatedAt,
		}
		if createErr := tx.Create(&rollup).Error; createErr != nil {
			return fmt.Errorf("创建语言对聚合失败: %w", createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取语言对聚合失败: %w", err)
	}

	// 新的日历日（UTC）首次使用该语言对时递增活跃天数
	if !sameUTCDay(rollup.LastUsed, event.CreatedAt) {
		rollup.DaysUsed++
	}

	rollup.AvgConfidence = (rollup.AvgConfidence*float64(rollup.UsageCount) + confidence) / float64(rollup.UsageCount+1)
	rollup.UsageCount++
	rollup.CharacterCount += int64(event.CharacterCount)
	rollup.TotalTimeMs += int64(event.TranslationTimeMs)
	if event.CreatedAt.After(rollup.LastUsed) {
		rollup.LastUsed = event.CreatedAt
	}
	if event.CreatedAt.Before(rollup.FirstUsed) {
		rollup.FirstUsed = event.CreatedAt
	}

	if saveErr := tx.Save(&rollup).Error; saveErr != nil {
		return fmt.Errorf("更新语言对聚合失败: %w", saveErr)
	}
	return nil
}

// GetByID 按ID读取单条事件。
func (s *Store) GetByID(id uint) (*Event, error) {
	var event Event
	if err := s.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// HistoryFilter 是历史查询的可选过滤条件。
type HistoryFilter struct {
	// Type 为空时不过滤
	Type Type
}

// ListByUser 按创建时间降序分页返回用户的历史事件。
// 多取一行来判定 hasMore，避免对事件表做整表计数。
func (s *Store) ListByUser(email string, filter HistoryFilter, page, perPage int) ([]Event, bool, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	query := s.db.Where("user_email = ?", email)
	if filter.Type != "" {
		query = query.Where("translation_type = ?", filter.Type)
	}

	var events []Event
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage + 1).
		Find(&events).Error
	if err != nil {
		return nil, false, fmt.Errorf("查询翻译历史失败: %w", err)
	}

	hasMore := len(events) > perPage
	if hasMore {
		events = events[:perPage]
	}
	return events, hasMore, nil
}

// SearchByText 对原文与译文做大小写不敏感的子串匹配，按时间降序返回。
// 相关度排序由上层的history服务完成。
func (s *Store) SearchByText(email, query string, limit int) ([]Event, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var events []Event
	err := s.db.Where("user_email = ?", email).
		Where("LOWER(original_text) LIKE ? OR LOWER(translated_text) LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("搜索翻译历史失败: %w", err)
	}
	return events, nil
}

// DeleteAllForUser 原子地清空一个用户的全部历史：
// 事件、语言对聚合一并删除，用户计数归零。返回删除的事件数。
// 对已为空的历史重复执行是安全的，返回0。
func (s *Store) DeleteAllForUser(email string) (int64, error) {
	var deleted int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_email = ?", email).Delete(&Event{})
		if result.Error != nil {
			return fmt.Errorf("删除翻译事件失败: %w", result.Error)
		}
		deleted = result.RowsAffected

		if err := tx.Where("user_email = ?", email).Delete(&PairRollup{}).Error; err != nil {
			return fmt.Errorf("删除语言对聚合失败: %w", err)
		}

		if err := tx.Model(&user.User{}).Where("email = ?", email).
			UpdateColumns(map[string]interface{}{
				"total_translations": 0,
				"total_characters":   0,
			}).Error; err != nil {
			return fmt.Errorf("重置用户计数失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Migrate 执行本模块的表结构迁移。
func Migrate() error {
	return database.DB.AutoMigrate(&Event{}, &PairRollup{})
}

// sameUTCDay 判断两个时刻是否落在同一个UTC日历日。
func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
