package analytics

// 本文件定义所有读侧报表的显式视图结构。
// 视图由纯转换函数从事件与聚合查询结果构建，读路径不修改任何事件。

// UserInfo 是各报表共用的用户画像块。
type UserInfo struct {
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	PreferredSourceLang string `json:"preferred_source_lang"`
	PreferredTargetLang string `json:"preferred_target_lang"`
	TotalTranslations   int    `json:"total_translations"`
	TotalCharacters     int64  `json:"total_characters"`
	MemberSince         string `json:"member_since"`
	LastLogin           string `json:"last_login,omitempty"`
}

// --- 仪表盘 ---

// DashboardView 是 GET /api/dashboard 的完整响应体。
type DashboardView struct {
	Success            bool            `json:"success"`
	UserInfo           UserInfo        `json:"user_info"`
	QuickStats         QuickStats      `json:"quick_stats"`
	RecentTranslations []RecentEvent   `json:"recent_translations"`
	TopLanguagePairs   []DashboardPair `json:"top_language_pairs"`
}

// QuickStats 汇总今日与最近7天的活跃度。
// 日历日按服务器UTC划分。
type QuickStats struct {
	Today    DayCounters  `json:"today"`
	ThisWeek WeekCounters `json:"this_week"`
}

type DayCounters struct {
	Translations int   `json:"translations"`
	Characters   int64 `json:"characters"`
}

type WeekCounters struct {
	Translations int   `json:"translations"`
	Characters   int64 `json:"characters"`
	ActiveDays   int   `json:"active_days"`
}

// RecentEvent 是仪表盘里最近翻译的精简形态。
type RecentEvent struct {
	ID                uint   `json:"id"`
	SourceLanguage    string `json:"source_language"`
	TargetLanguage    string `json:"target_language"`
	OriginalText      string `json:"original_text"`
	TranslatedText    string `json:"translated_text"`
	CharacterCount    int    `json:"character_count"`
	TranslationTimeMs int    `json:"translation_time_ms"`
	CreatedAt         string `json:"created_at"`
}

// DashboardPair 是仪表盘里最常用语言对的条目。
type DashboardPair struct {
	Pair          string  `json:"pair"`
	Count         int64   `json:"count"`
	AvgTimeMs     float64 `json:"avg_time_ms"`
	AvgConfidence float64 `json:"avg_confidence"`
	LastUsed      string  `json:"last_used"`
}

// --- 周期统计 ---

// StatisticsView 是 GET /api/statistics 的完整响应体。
type StatisticsView struct {
	Success           bool                 `json:"success"`
	Period            string               `json:"period"`
	UserInfo          UserInfo             `json:"user_info"`
	Overall           OverallStatistics    `json:"overall_statistics"`
	DailyActivity     []DailyActivityRow   `json:"daily_activity"`
	HourlyPatterns    []HourlyBucket       `json:"hourly_patterns"`
	TopLanguagePairs  []PairUsageRow       `json:"top_language_pairs"`
	PerformanceByType []TypePerformanceRow `json:"performance_by_type"`
}

// OverallStatistics 汇总周期内的整体指标，空分母时平均值为0。
type OverallStatistics struct {
	TotalTranslations     int     `json:"total_translations"`
	TotalCharacters       int64   `json:"total_characters"`
	AvgCharacters         float64 `json:"avg_characters_per_translation"`
	AvgTimeMs             float64 `json:"avg_translation_time_ms"`
	UniqueSourceLanguages int     `json:"unique_source_languages"`
	UniqueTargetLanguages int     `json:"unique_target_languages"`
	ActiveDays            int     `json:"active_days"`
	FirstTranslation      string  `json:"first_translation,omitempty"`
	LastTranslation       string  `json:"last_translation,omitempty"`
}

// DailyActivityRow 是周期统计里按日历日的一行，零活跃的日子不出现。
type DailyActivityRow struct {
	Date          string  `json:"date"`
	Translations  int     `json:"translations"`
	Characters    int64   `json:"characters"`
	AvgTimeMs     float64 `json:"avg_time_ms"`
	LanguagePairs int     `json:"language_pairs"`
}

// HourlyBucket 按一天中的小时（0–23）聚合整个周期，固定输出24桶。
type HourlyBucket struct {
	Hour         int   `json:"hour"`
	Translations int   `json:"translations"`
	Characters   int64 `json:"characters"`
}

// PairUsageRow 是周期统计里按使用次数排名的语言对。
type PairUsageRow struct {
	Pair            string  `json:"language_pair"`
	Count           int64   `json:"count"`
	TotalCharacters int64   `json:"total_characters"`
	AvgCharacters   float64 `json:"avg_characters"`
	AvgConfidence   float64 `json:"avg_confidence"`
	LastUsed        string  `json:"last_used"`
}

// TypePerformanceRow 按翻译类型给出性能画像。
type TypePerformanceRow struct {
	Type          string  `json:"translation_type"`
	Count         int     `json:"count"`
	AvgTimeMs     float64 `json:"avg_time_ms"`
	AvgCharacters float64 `json:"avg_characters"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// --- 逐日分析 ---

// DailyAnalyticsView 是 GET /api/analytics/daily 的完整响应体。
type DailyAnalyticsView struct {
	Success   bool             `json:"success"`
	Days      int              `json:"days"`
	DailyData []DailyDetailRow `json:"daily_data"`
	Summary   DailySummary     `json:"summary"`
}

// DailyDetailRow 是逐日分析里的一行。
type DailyDetailRow struct {
	Date                 string  `json:"date"`
	Translations         int     `json:"translations"`
	Characters           int64   `json:"characters"`
	AvgCharacters        float64 `json:"avg_characters"`
	AvgTimeMs            float64 `json:"avg_time_ms"`
	SourceLanguagesUsed  int     `json:"source_languages_used"`
	TargetLanguagesUsed  int     `json:"target_languages_used"`
	ActiveHours          int     `json:"active_hours"`
	FirstTranslationTime string  `json:"first_translation_time"`
	LastTranslationTime  string  `json:"last_translation_time"`
}

// DailySummary 汇总逐日分析。
// TrendPercentage 是最近半窗与上一个等长半窗的翻译量环比，
// 上一半窗为0时取0而不是报错。
type DailySummary struct {
	TotalDays             int     `json:"total_days"`
	ActiveDays            int     `json:"active_days"`
	TotalTranslations     int     `json:"total_translations"`
	TotalCharacters       int64   `json:"total_characters"`
	AvgTranslationsPerDay float64 `json:"avg_translations_per_day"`
	TrendPercentage       float64 `json:"trend_percentage"`
}

// --- 语言分析 ---

// LanguageAnalyticsView 是 GET /api/analytics/languages 的完整响应体。
type LanguageAnalyticsView struct {
	Success         bool               `json:"success"`
	SourceLanguages []LanguageUsageRow `json:"source_languages"`
	TargetLanguages []LanguageUsageRow `json:"target_languages"`
	LanguagePairs   []PairAnalyticsRow `json:"language_pairs"`
	Summary         LanguageSummary    `json:"summary"`
}

// LanguageUsageRow 是按单一语言（源或目标）聚合的一行。
type LanguageUsageRow struct {
	Language        string  `json:"language"`
	LanguageName    string  `json:"language_name"`
	UsageCount      int     `json:"usage_count"`
	TotalCharacters int64   `json:"total_characters"`
	AvgCharacters   float64 `json:"avg_characters"`
	AvgTimeMs       float64 `json:"avg_time_ms"`
	LastUsed        string  `json:"last_used"`
}

// PairAnalyticsRow 直接取自语言对聚合表，不从原始事件重算。
type PairAnalyticsRow struct {
	SourceLanguage  string  `json:"source_language"`
	TargetLanguage  string  `json:"target_language"`
	Pair            string  `json:"language_pair"`
	UsageCount      int64   `json:"usage_count"`
	TotalCharacters int64   `json:"total_characters"`
	AvgCharacters   float64 `json:"avg_characters"`
	AvgTimeMs       float64 `json:"avg_time_ms"`
	AvgConfidence   float64 `json:"avg_confidence"`
	FirstUsed       string  `json:"first_used"`
	LastUsed        string  `json:"last_used"`
	DaysUsed        int     `json:"days_used"`
}

// LanguageSummary 给出最常用的源语言、目标语言与语言对，
// 次数相同时取字典序较小者。
type LanguageSummary struct {
	UniqueSourceLanguages int    `json:"unique_source_languages"`
	UniqueTargetLanguages int    `json:"unique_target_languages"`
	UniqueLanguagePairs   int    `json:"unique_language_pairs"`
	MostUsedSource        string `json:"most_used_source,omitempty"`
	MostUsedTarget        string `json:"most_used_target,omitempty"`
	MostUsedPair          string `json:"most_used_pair,omitempty"`
}
