package translation

import (
	"time"
)

// Type 区分翻译事件的来源形态。
type Type string

const (
	TypeText   Type = "text"
	TypeSpeech Type = "speech"
)

// IsValid 判断是否为受支持的翻译类型。
func (t Type) IsValid() bool {
	return t == TypeText || t == TypeSpeech
}

// Event 是一次成功翻译的不可变记录。
// 只在网关调用成功时写入一次，除整体清空历史外永不删除或修改。
type Event struct {
	ID uint `gorm:"primarykey" json:"id"`

	UserEmail string `gorm:"size:255;not null;index;index:idx_events_user_created,priority:1" json:"-"`

	SourceLanguage string `gorm:"size:10;not null" json:"source_language"`
	TargetLanguage string `gorm:"size:10;not null" json:"target_language"`

	OriginalText   string `gorm:"type:text;not null" json:"original_text"`
	TranslatedText string `gorm:"type:text;not null" json:"translated_text"`

	TranslationType Type `gorm:"size:10;not null;default:text;index" json:"translation_type"`

	// CharacterCount 是原文的码点数。
	CharacterCount int `json:"character_count"`
	// TranslationTimeMs 是网关观察到的端到端耗时（含重试等待）。
	TranslationTimeMs int `json:"translation_time_ms"`
	// ConfidenceScore 由上游返回，0.0–1.0，部分上游不提供。
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`

	IPAddress string `gorm:"size:45" json:"-"`

	CreatedAt time.Time `gorm:"index;index:idx_events_user_created,priority:2" json:"created_at"`
}

// TableName 指定表名
func (Event) TableName() string {
	return "translation_events"
}

// PairRollup 是按 (用户, 源语言, 目标语言) 维护的去范式化累积聚合，
// 与事件插入在同一事务内更新，让语言对分析无需全量扫描事件表。
type PairRollup struct {
	ID uint `gorm:"primarykey"`

	UserEmail      string `gorm:"size:255;not null;uniqueIndex:idx_rollup_user_pair,priority:1"`
	SourceLanguage string `gorm:"size:10;not null;uniqueIndex:idx_rollup_user_pair,priority:2"`
	TargetLanguage string `gorm:"size:10;not null;uniqueIndex:idx_rollup_user_pair,priority:3"`

	UsageCount     int64 `gorm:"default:0"`
	CharacterCount int64 `gorm:"default:0"`
	TotalTimeMs    int64 `gorm:"default:0"`

	// AvgConfidence 是事件置信度的算术平均，上游未提供时按0计入。
	AvgConfidence float64 `gorm:"default:0"`

	// DaysUsed 是该语言对出现过的不同日历日（UTC）数量。
	DaysUsed int `gorm:"default:0"`

	FirstUsed time.Time
	LastUsed  time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (PairRollup) TableName() string {
	return "language_pair_rollups"
}

// Pair 返回展示用的语言对字符串。
func (r *PairRollup) Pair() string {
	return r.SourceLanguage + " → " + r.TargetLanguage
}
