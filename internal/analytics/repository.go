package analytics

import (
	"time"

	"gorm.io/gorm"

	"github.com/lingua-rtt/translator-backend/internal/translation"
)

// eventRecord 是聚合计算所需的事件最小投影，
// 避免把完整文本列拉进内存。
type eventRecord struct {
	SourceLanguage    string
	TargetLanguage    string
	TranslationType   translation.Type
	CharacterCount    int
	TranslationTimeMs int
	ConfidenceScore   *float64
	CreatedAt         time.Time
}

type repository struct {
	db *gorm.DB
}

func newRepository(db *gorm.DB) *repository {
	return &repository{db: db}
}

// eventsSince 按时间升序取出用户自 since 起的全部事件投影。
// since 为 nil 时不限时间（"all" 周期）。
func (r *repository) eventsSince(userEmail string, since *time.Time) ([]eventRecord, error) {
	query := r.db.Model(&translation.Event{}).
		Select("source_language", "target_language", "translation_type",
			"character_count", "translation_time_ms", "confidence_score", "created_at").
		Where("user_email = ?", userEmail)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var records []eventRecord
	if err := query.Order("created_at asc, id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// recentEvents 取出用户最近的 limit 条完整事件（含文本），时间降序。
func (r *repository) recentEvents(userEmail string, limit int) ([]translation.Event, error) {
	var events []translation.Event
	err := r.db.Where("user_email = ?", userEmail).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// rollups 取出用户的全部语言对聚合行，按使用次数降序。
func (r *repository) rollups(userEmail string) ([]translation.PairRollup, error) {
	var rows []translation.PairRollup
	err := r.db.Where("user_email = ?", userEmail).
		Order("usage_count desc, last_used desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
