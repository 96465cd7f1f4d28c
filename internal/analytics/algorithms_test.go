package analytics

import (
	"testing"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/translation"
)

func makeEvent(createdAt time.Time, source, target string, chars, timeMs int) eventRecord {
	return eventRecord{
		SourceLanguage:    source,
		TargetLanguage:    target,
		TranslationType:   translation.TypeText,
		CharacterCount:    chars,
		TranslationTimeMs: timeMs,
		CreatedAt:         createdAt,
	}
}

func TestBuildOverall(t *testing.T) {
	t.Run("empty input yields zero values", func(t *testing.T) {
		overall := buildOverall(nil)
		if overall.TotalTranslations != 0 || overall.AvgCharacters != 0 || overall.AvgTimeMs != 0 {
			t.Fatalf("空输入应全为零值: %+v", overall)
		}
		if overall.FirstTranslation != "" || overall.LastTranslation != "" {
			t.Fatalf("空输入不应有首末时间: %+v", overall)
		}
	})

	t.Run("aggregates totals and distinct sets", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		events := []eventRecord{
			makeEvent(base, "en", "es", 10, 100),
			makeEvent(base.Add(time.Hour), "en", "fr", 20, 200),
			makeEvent(base.Add(25*time.Hour), "de", "es", 30, 300),
		}

		overall := buildOverall(events)
		if overall.TotalTranslations != 3 || overall.TotalCharacters != 60 {
			t.Fatalf("totals = (%d, %d), want (3, 60)", overall.TotalTranslations, overall.TotalCharacters)
		}
		if overall.AvgCharacters != 20 || overall.AvgTimeMs != 200 {
			t.Fatalf("averages = (%v, %v), want (20, 200)", overall.AvgCharacters, overall.AvgTimeMs)
		}
		if overall.UniqueSourceLanguages != 2 || overall.UniqueTargetLanguages != 2 {
			t.Fatalf("distinct = (%d, %d), want (2, 2)", overall.UniqueSourceLanguages, overall.UniqueTargetLanguages)
		}
		if overall.ActiveDays != 2 {
			t.Fatalf("ActiveDays = %d, want 2", overall.ActiveDays)
		}
	})
}

func TestBuildDailyActivityOmitsZeroDays(t *testing.T) {
	// 3月1日与3月3日有活动，3月2日不应出现在结果里
	events := []eventRecord{
		makeEvent(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), "en", "es", 10, 100),
		makeEvent(time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), "en", "es", 20, 200),
		makeEvent(time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC), "en", "fr", 30, 300),
	}

	rows := buildDailyActivity(events)
	if len(rows) != 2 {
		t.Fatalf("行数 = %d, want 2", len(rows))
	}
	if rows[0].Date != "2026-03-03" || rows[1].Date != "2026-03-01" {
		t.Fatalf("日期应降序: %q, %q", rows[0].Date, rows[1].Date)
	}
	if rows[0].Translations != 2 || rows[0].Characters != 50 {
		t.Fatalf("3月3日 = (%d, %d), want (2, 50)", rows[0].Translations, rows[0].Characters)
	}
	if rows[0].LanguagePairs != 2 {
		t.Fatalf("3月3日语言对数 = %d, want 2", rows[0].LanguagePairs)
	}
	if rows[0].AvgTimeMs != 250 {
		t.Fatalf("3月3日平均耗时 = %v, want 250", rows[0].AvgTimeMs)
	}
}

func TestBuildHourlyPatternsAlwaysHas24Buckets(t *testing.T) {
	events := []eventRecord{
		makeEvent(time.Date(2026, 3, 1, 9, 15, 0, 0, time.UTC), "en", "es", 10, 100),
		makeEvent(time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC), "en", "es", 20, 100),
		makeEvent(time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), "en", "es", 5, 100),
	}

	buckets := buildHourlyPatterns(events)
	if len(buckets) != 24 {
		t.Fatalf("桶数 = %d, want 24", len(buckets))
	}
	for i, b := range buckets {
		if b.Hour != i {
			t.Fatalf("第%d桶的Hour = %d", i, b.Hour)
		}
	}
	if buckets[9].Translations != 2 || buckets[9].Characters != 30 {
		t.Fatalf("9点桶 = (%d, %d), want (2, 30)", buckets[9].Translations, buckets[9].Characters)
	}
	if buckets[23].Translations != 1 {
		t.Fatalf("23点桶 = %d, want 1", buckets[23].Translations)
	}
	if buckets[0].Translations != 0 {
		t.Fatalf("0点桶 = %d, want 0", buckets[0].Translations)
	}
}

func TestBuildTopPairsTieBreaksLexicographically(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []eventRecord{
		makeEvent(base, "en", "fr", 10, 100),
		makeEvent(base.Add(time.Minute), "en", "es", 10, 100),
		makeEvent(base.Add(2*time.Minute), "de", "en", 10, 100),
		makeEvent(base.Add(3*time.Minute), "de", "en", 10, 100),
	}

	rows := buildTopPairs(events)
	if len(rows) != 3 {
		t.Fatalf("行数 = %d, want 3", len(rows))
	}
	if rows[0].Pair != "de → en" || rows[0].Count != 2 {
		t.Fatalf("第一名 = %q (%d), want de → en (2)", rows[0].Pair, rows[0].Count)
	}
	// 同为1次，en → es 的字典序小于 en → fr
	if rows[1].Pair != "en → es" || rows[2].Pair != "en → fr" {
		t.Fatalf("并列名次应按字典序: %q, %q", rows[1].Pair, rows[2].Pair)
	}
}

func TestComputeTrend(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	t.Run("prior window has data", func(t *testing.T) {
		var events []eventRecord
		// 上一半窗(15天前-30天前)2条，最近半窗3条 → +50%
		for i := 0; i < 2; i++ {
			events = append(events, makeEvent(now.AddDate(0, 0, -20).Add(time.Duration(i)*time.Hour), "en", "es", 10, 100))
		}
		for i := 0; i < 3; i++ {
			events = append(events, makeEvent(now.AddDate(0, 0, -3).Add(time.Duration(i)*time.Hour), "en", "es", 10, 100))
		}

		trend := computeTrend(events, 30, now)
		if trend != 50 {
			t.Fatalf("trend = %v, want 50", trend)
		}
	})

	t.Run("empty prior window yields zero", func(t *testing.T) {
		events := []eventRecord{
			makeEvent(now.AddDate(0, 0, -2), "en", "es", 10, 100),
		}
		trend := computeTrend(events, 30, now)
		if trend != 0 {
			t.Fatalf("trend = %v, want 0", trend)
		}
	})

	t.Run("declining volume yields negative trend", func(t *testing.T) {
		var events []eventRecord
		for i := 0; i < 4; i++ {
			events = append(events, makeEvent(now.AddDate(0, 0, -20).Add(time.Duration(i)*time.Hour), "en", "es", 10, 100))
		}
		events = append(events, makeEvent(now.AddDate(0, 0, -2), "en", "es", 10, 100))

		trend := computeTrend(events, 30, now)
		if trend != -75 {
			t.Fatalf("trend = %v, want -75", trend)
		}
	})
}

func TestBuildDailyDetailAndSummary(t *testing.T) {
	events := []eventRecord{
		makeEvent(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), "en", "es", 10, 100),
		makeEvent(time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC), "de", "es", 20, 200),
	}

	rows := buildDailyDetail(events)
	if len(rows) != 1 {
		t.Fatalf("行数 = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.SourceLanguagesUsed != 2 || row.TargetLanguagesUsed != 1 {
		t.Fatalf("语言数 = (%d, %d), want (2, 1)", row.SourceLanguagesUsed, row.TargetLanguagesUsed)
	}
	if row.ActiveHours != 2 {
		t.Fatalf("ActiveHours = %d, want 2", row.ActiveHours)
	}
	if row.FirstTranslationTime != "09:00:00" || row.LastTranslationTime != "14:30:00" {
		t.Fatalf("首末时间 = (%q, %q)", row.FirstTranslationTime, row.LastTranslationTime)
	}

	summary := buildDailySummary(rows, 30, 50)
	if summary.TotalDays != 30 || summary.ActiveDays != 1 {
		t.Fatalf("summary天数 = (%d, %d), want (30, 1)", summary.TotalDays, summary.ActiveDays)
	}
	if summary.TotalTranslations != 2 || summary.TotalCharacters != 30 {
		t.Fatalf("summary总量 = (%d, %d), want (2, 30)", summary.TotalTranslations, summary.TotalCharacters)
	}
	if summary.TrendPercentage != 50 {
		t.Fatalf("TrendPercentage = %v, want 50", summary.TrendPercentage)
	}
}

func TestBuildQuickStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	events := []eventRecord{
		makeEvent(now.Add(-time.Hour), "en", "es", 10, 100),                 // 今天
		makeEvent(now.AddDate(0, 0, -2), "en", "es", 20, 100),               // 本周
		makeEvent(now.AddDate(0, 0, -2).Add(time.Hour), "en", "es", 5, 100), // 本周同一天
	}

	stats := buildQuickStats(events, now)
	if stats.Today.Translations != 1 || stats.Today.Characters != 10 {
		t.Fatalf("today = %+v", stats.Today)
	}
	if stats.ThisWeek.Translations != 3 || stats.ThisWeek.Characters != 35 {
		t.Fatalf("thisWeek = %+v", stats.ThisWeek)
	}
	if stats.ThisWeek.ActiveDays != 2 {
		t.Fatalf("ActiveDays = %d, want 2", stats.ThisWeek.ActiveDays)
	}
}

func TestBuildLanguageViews(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	events := []eventRecord{
		makeEvent(base, "en", "es", 10, 100),
		makeEvent(base.Add(time.Minute), "en", "fr", 20, 200),
		makeEvent(base.Add(2*time.Minute), "de", "es", 30, 300),
	}

	sources := buildLanguageUsage(events, func(ev eventRecord) string { return ev.SourceLanguage })
	if len(sources) != 2 {
		t.Fatalf("源语言行数 = %d, want 2", len(sources))
	}
	if sources[0].Language != "en" || sources[0].UsageCount != 2 {
		t.Fatalf("第一名 = %q (%d), want en (2)", sources[0].Language, sources[0].UsageCount)
	}
	if sources[0].LanguageName != "English" {
		t.Fatalf("LanguageName = %q, want English", sources[0].LanguageName)
	}

	targets := buildLanguageUsage(events, func(ev eventRecord) string { return ev.TargetLanguage })
	if targets[0].Language != "es" || targets[0].UsageCount != 2 {
		t.Fatalf("目标第一名 = %q (%d), want es (2)", targets[0].Language, targets[0].UsageCount)
	}

	rollups := []translation.PairRollup{
		{SourceLanguage: "en", TargetLanguage: "es", UsageCount: 1, CharacterCount: 10, TotalTimeMs: 100, FirstUsed: base, LastUsed: base},
		{SourceLanguage: "de", TargetLanguage: "es", UsageCount: 2, CharacterCount: 60, TotalTimeMs: 600, FirstUsed: base, LastUsed: base},
	}
	pairs := buildPairAnalytics(rollups)
	if pairs[0].Pair != "de → es" {
		t.Fatalf("语言对第一名 = %q, want de → es", pairs[0].Pair)
	}
	if pairs[0].AvgCharacters != 30 || pairs[0].AvgTimeMs != 300 {
		t.Fatalf("语言对平均 = (%v, %v), want (30, 300)", pairs[0].AvgCharacters, pairs[0].AvgTimeMs)
	}

	summary := buildLanguageSummary(sources, targets, pairs)
	if summary.MostUsedSource != "en" || summary.MostUsedTarget != "es" || summary.MostUsedPair != "de → es" {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.UniqueSourceLanguages != 2 || summary.UniqueTargetLanguages != 2 || summary.UniqueLanguagePairs != 2 {
		t.Fatalf("unique counts = %+v", summary)
	}
}

func TestTopRollupPairsTieBreaksByRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rollups := []translation.PairRollup{
		{SourceLanguage: "en", TargetLanguage: "es", UsageCount: 3, TotalTimeMs: 300, LastUsed: base},
		{SourceLanguage: "en", TargetLanguage: "fr", UsageCount: 3, TotalTimeMs: 600, LastUsed: base.Add(time.Hour)},
		{SourceLanguage: "de", TargetLanguage: "en", UsageCount: 1, LastUsed: base},
	}

	rows := topRollupPairs(rollups, 2)
	if len(rows) != 2 {
		t.Fatalf("行数 = %d, want 2", len(rows))
	}
	// 同为3次时取最近使用者
	if rows[0].Pair != "en → fr" || rows[1].Pair != "en → es" {
		t.Fatalf("排序 = %q, %q", rows[0].Pair, rows[1].Pair)
	}
	if rows[0].AvgTimeMs != 200 {
		t.Fatalf("AvgTimeMs = %v, want 200", rows[0].AvgTimeMs)
	}
}

func TestBuildPerformanceByType(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	conf := 0.9
	events := []eventRecord{
		makeEvent(base, "en", "es", 10, 100),
		makeEvent(base.Add(time.Minute), "en", "es", 20, 300),
	}
	events[1].TranslationType = translation.TypeSpeech
	events[1].ConfidenceScore = &conf

	rows := buildPerformanceByType(events)
	if len(rows) != 2 {
		t.Fatalf("行数 = %d, want 2", len(rows))
	}
	// 类型名升序：speech在前
	if rows[0].Type != "speech" || rows[1].Type != "text" {
		t.Fatalf("类型顺序 = %q, %q", rows[0].Type, rows[1].Type)
	}
	if rows[0].AvgConfidence != 0.9 {
		t.Fatalf("speech AvgConfidence = %v, want 0.9", rows[0].AvgConfidence)
	}
	// text 无置信度样本时平均为0
	if rows[1].AvgConfidence != 0 {
		t.Fatalf("text AvgConfidence = %v, want 0", rows[1].AvgConfidence)
	}
}

func TestBuildDailyActivityCapsAt90Rows(t *testing.T) {
	var events []eventRecord
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		events = append(events, makeEvent(base.AddDate(0, 0, i), "en", "es", 10, 100))
	}

	rows := buildDailyActivity(events)
	if len(rows) != maxDailyActivityRows {
		t.Fatalf("行数 = %d, want %d", len(rows), maxDailyActivityRows)
	}
	// 截断保留最近的日子
	if rows[0].Date != "2026-04-30" {
		t.Fatalf("最新一行 = %q", rows[0].Date)
	}
}
