package analytics

import (
	"sort"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/language"
	"github.com/lingua-rtt/translator-backend/internal/translation"
)

// 本文件是聚合引擎的纯计算层：输入事件投影与聚合行，输出视图片段。
// 所有函数无副作用，日历日一律按服务器UTC划分。

const (
	maxDailyActivityRows = 90
	maxTopPairRows       = 20
)

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func safeDiv(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// buildQuickStats 计算今日与最近7个日历日的活跃度计数。
func buildQuickStats(events []eventRecord, now time.Time) QuickStats {
	today := dayKey(now)
	weekStart := now.UTC().AddDate(0, 0, -7)

	var stats QuickStats
	weekDays := make(map[string]struct{})
	for _, ev := range events {
		key := dayKey(ev.CreatedAt)
		if key == today {
			stats.Today.Translations++
			stats.Today.Characters += int64(ev.CharacterCount)
		}
		if !ev.CreatedAt.Before(weekStart) {
			stats.ThisWeek.Translations++
			stats.ThisWeek.Characters += int64(ev.CharacterCount)
			weekDays[key] = struct{}{}
		}
	}
	stats.ThisWeek.ActiveDays = len(weekDays)
	return stats
}

// buildOverall 汇总周期内的整体指标，要求事件已按时间升序。
func buildOverall(events []eventRecord) OverallStatistics {
	var overall OverallStatistics
	if len(events) == 0 {
		return overall
	}

	sources := make(map[string]struct{})
	targets := make(map[string]struct{})
	days := make(map[string]struct{})
	var charSum, timeSum float64
	for _, ev := range events {
		overall.TotalTranslations++
		overall.TotalCharacters += int64(ev.CharacterCount)
		charSum += float64(ev.CharacterCount)
		timeSum += float64(ev.TranslationTimeMs)
		sources[ev.SourceLanguage] = struct{}{}
		targets[ev.TargetLanguage] = struct{}{}
		days[dayKey(ev.CreatedAt)] = struct{}{}
	}

	overall.AvgCharacters = safeDiv(charSum, len(events))
	overall.AvgTimeMs = safeDiv(timeSum, len(events))
	overall.UniqueSourceLanguages = len(sources)
	overall.UniqueTargetLanguages = len(targets)
	overall.ActiveDays = len(days)
	overall.FirstTranslation = formatTime(events[0].CreatedAt)
	overall.LastTranslation = formatTime(events[len(events)-1].CreatedAt)
	return overall
}

// buildDailyActivity 按日历日聚合，日期降序，零活跃的日子不产生行，
// 最多返回90行。
func buildDailyActivity(events []eventRecord) []DailyActivityRow {
	type dayAgg struct {
		translations int
		characters   int64
		timeSum      float64
		pairs        map[string]struct{}
	}
	byDay := make(map[string]*dayAgg)
	for _, ev := range events {
		key := dayKey(ev.CreatedAt)
		agg := byDay[key]
		if agg == nil {
			agg = &dayAgg{pairs: make(map[string]struct{})}
			byDay[key] = agg
		}
		agg.translations++
		agg.characters += int64(ev.CharacterCount)
		agg.timeSum += float64(ev.TranslationTimeMs)
		agg.pairs[ev.SourceLanguage+"->"+ev.TargetLanguage] = struct{}{}
	}

	rows := make([]DailyActivityRow, 0, len(byDay))
	for key, agg := range byDay {
		rows = append(rows, DailyActivityRow{
			Date:          key,
			Translations:  agg.translations,
			Characters:    agg.characters,
			AvgTimeMs:     safeDiv(agg.timeSum, agg.translations),
			LanguagePairs: len(agg.pairs),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	if len(rows) > maxDailyActivityRows {
		rows = rows[:maxDailyActivityRows]
	}
	return rows
}

// buildHourlyPatterns 按一天中的小时聚合整个周期，固定输出24桶。
func buildHourlyPatterns(events []eventRecord) []HourlyBucket {
	buckets := make([]HourlyBucket, 24)
	for i := range buckets {
		buckets[i].Hour = i
	}
	for _, ev := range events {
		h := ev.CreatedAt.UTC().Hour()
		buckets[h].Translations++
		buckets[h].Characters += int64(ev.CharacterCount)
	}
	return buckets
}

// buildTopPairs 从事件重算周期内的语言对排名：使用次数降序，
// 同次数取字典序较小的语言对，最多20行。
func buildTopPairs(events []eventRecord) []PairUsageRow {
	type pairAgg struct {
		count      int64
		characters int64
		confSum    float64
		confCount  int
		lastUsed   time.Time
	}
	byPair := make(map[string]*pairAgg)
	for _, ev := range events {
		key := ev.SourceLanguage + " → " + ev.TargetLanguage
		agg := byPair[key]
		if agg == nil {
			agg = &pairAgg{}
			byPair[key] = agg
		}
		agg.count++
		agg.characters += int64(ev.CharacterCount)
		if ev.ConfidenceScore != nil {
			agg.confSum += *ev.ConfidenceScore
			agg.confCount++
		}
		if ev.CreatedAt.After(agg.lastUsed) {
			agg.lastUsed = ev.CreatedAt
		}
	}

	rows := make([]PairUsageRow, 0, len(byPair))
	for key, agg := range byPair {
		rows = append(rows, PairUsageRow{
			Pair:            key,
			Count:           agg.count,
			TotalCharacters: agg.characters,
			AvgCharacters:   safeDiv(float64(agg.characters), int(agg.count)),
			AvgConfidence:   safeDiv(agg.confSum, agg.confCount),
			LastUsed:        formatTime(agg.lastUsed),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Pair < rows[j].Pair
	})
	if len(rows) > maxTopPairRows {
		rows = rows[:maxTopPairRows]
	}
	return rows
}

// buildPerformanceByType 按翻译类型聚合性能指标，类型名升序。
func buildPerformanceByType(events []eventRecord) []TypePerformanceRow {
	type typeAgg struct {
		count     int
		timeSum   float64
		charSum   float64
		confSum   float64
		confCount int
	}
	byType := make(map[string]*typeAgg)
	for _, ev := range events {
		key := string(ev.TranslationType)
		agg := byType[key]
		if agg == nil {
			agg = &typeAgg{}
			byType[key] = agg
		}
		agg.count++
		agg.timeSum += float64(ev.TranslationTimeMs)
		agg.charSum += float64(ev.CharacterCount)
		if ev.ConfidenceScore != nil {
			agg.confSum += *ev.ConfidenceScore
			agg.confCount++
		}
	}

	rows := make([]TypePerformanceRow, 0, len(byType))
	for key, agg := range byType {
		rows = append(rows, TypePerformanceRow{
			Type:          key,
			Count:         agg.count,
			AvgTimeMs:     safeDiv(agg.timeSum, agg.count),
			AvgCharacters: safeDiv(agg.charSum, agg.count),
			AvgConfidence: safeDiv(agg.confSum, agg.confCount),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows
}

// buildDailyDetail 生成逐日分析的明细行，日期降序。
func buildDailyDetail(events []eventRecord) []DailyDetailRow {
	type detailAgg struct {
		translations int
		characters   int64
		timeSum      float64
		sources      map[string]struct{}
		targets      map[string]struct{}
		hours        map[int]struct{}
		first        time.Time
		last         time.Time
	}
	byDay := make(map[string]*detailAgg)
	for _, ev := range events {
		key := dayKey(ev.CreatedAt)
		agg := byDay[key]
		if agg == nil {
			agg = &detailAgg{
				sources: make(map[string]struct{}),
				targets: make(map[string]struct{}),
				hours:   make(map[int]struct{}),
				first:   ev.CreatedAt,
				last:    ev.CreatedAt,
			}
			byDay[key] = agg
		}
		agg.translations++
		agg.characters += int64(ev.CharacterCount)
		agg.timeSum += float64(ev.TranslationTimeMs)
		agg.sources[ev.SourceLanguage] = struct{}{}
		agg.targets[ev.TargetLanguage] = struct{}{}
		agg.hours[ev.CreatedAt.UTC().Hour()] = struct{}{}
		if ev.CreatedAt.Before(agg.first) {
			agg.first = ev.CreatedAt
		}
		if ev.CreatedAt.After(agg.last) {
			agg.last = ev.CreatedAt
		}
	}

	rows := make([]DailyDetailRow, 0, len(byDay))
	for key, agg := range byDay {
		rows = append(rows, DailyDetailRow{
			Date:                 key,
			Translations:         agg.translations,
			Characters:           agg.characters,
			AvgCharacters:        safeDiv(float64(agg.characters), agg.translations),
			AvgTimeMs:            safeDiv(agg.timeSum, agg.translations),
			SourceLanguagesUsed:  len(agg.sources),
			TargetLanguagesUsed:  len(agg.targets),
			ActiveHours:          len(agg.hours),
			FirstTranslationTime: agg.first.UTC().Format("15:04:05"),
			LastTranslationTime:  agg.last.UTC().Format("15:04:05"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

// computeTrend 把窗口对半切分，比较最近半窗与上一个等长半窗的翻译量：
// (recent - prior) / prior * 100，上一半窗为0时取0。
func computeTrend(events []eventRecord, days int, now time.Time) float64 {
	half := days / 2
	if half == 0 {
		return 0
	}
	recentStart := now.UTC().AddDate(0, 0, -half)
	priorStart := now.UTC().AddDate(0, 0, -2*half)

	var recent, prior int
	for _, ev := range events {
		switch {
		case !ev.CreatedAt.Before(recentStart):
			recent++
		case !ev.CreatedAt.Before(priorStart):
			prior++
		}
	}
	if prior == 0 {
		return 0
	}
	return float64(recent-prior) / float64(prior) * 100
}

// buildDailySummary 汇总逐日分析，TotalDays 是请求的窗口长度。
func buildDailySummary(rows []DailyDetailRow, days int, trend float64) DailySummary {
	summary := DailySummary{
		TotalDays:       days,
		ActiveDays:      len(rows),
		TrendPercentage: trend,
	}
	for _, r := range rows {
		summary.TotalTranslations += r.Translations
		summary.TotalCharacters += r.Characters
	}
	if days > 0 {
		summary.AvgTranslationsPerDay = float64(summary.TotalTranslations) / float64(days)
	}
	return summary
}

// buildLanguageUsage 按单一语言维度聚合，keyOf 决定取源语言还是目标语言。
// 使用次数降序，同次数取语言码字典序较小者。
func buildLanguageUsage(events []eventRecord, keyOf func(eventRecord) string) []LanguageUsageRow {
	type langAgg struct {
		count      int
		characters int64
		timeSum    float64
		lastUsed   time.Time
	}
	byLang := make(map[string]*langAgg)
	for _, ev := range events {
		key := keyOf(ev)
		agg := byLang[key]
		if agg == nil {
			agg = &langAgg{}
			byLang[key] = agg
		}
		agg.count++
		agg.characters += int64(ev.CharacterCount)
		agg.timeSum += float64(ev.TranslationTimeMs)
		if ev.CreatedAt.After(agg.lastUsed) {
			agg.lastUsed = ev.CreatedAt
		}
	}

	rows := make([]LanguageUsageRow, 0, len(byLang))
	for code, agg := range byLang {
		rows = append(rows, LanguageUsageRow{
			Language:        code,
			LanguageName:    language.Name(code),
			UsageCount:      agg.count,
			TotalCharacters: agg.characters,
			AvgCharacters:   safeDiv(float64(agg.characters), agg.count),
			AvgTimeMs:       safeDiv(agg.timeSum, agg.count),
			LastUsed:        formatTime(agg.lastUsed),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UsageCount != rows[j].UsageCount {
			return rows[i].UsageCount > rows[j].UsageCount
		}
		return rows[i].Language < rows[j].Language
	})
	return rows
}

// buildPairAnalytics 把语言对聚合行转换成视图行，不从原始事件重算。
func buildPairAnalytics(rollups []translation.PairRollup) []PairAnalyticsRow {
	rows := make([]PairAnalyticsRow, 0, len(rollups))
	for _, r := range rollups {
		row := PairAnalyticsRow{
			SourceLanguage:  r.SourceLanguage,
			TargetLanguage:  r.TargetLanguage,
			Pair:            r.Pair(),
			UsageCount:      r.UsageCount,
			TotalCharacters: r.CharacterCount,
			AvgConfidence:   r.AvgConfidence,
			FirstUsed:       formatTime(r.FirstUsed),
			LastUsed:        formatTime(r.LastUsed),
			DaysUsed:        r.DaysUsed,
		}
		if r.UsageCount > 0 {
			row.AvgCharacters = float64(r.CharacterCount) / float64(r.UsageCount)
			row.AvgTimeMs = float64(r.TotalTimeMs) / float64(r.UsageCount)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UsageCount != rows[j].UsageCount {
			return rows[i].UsageCount > rows[j].UsageCount
		}
		return rows[i].Pair < rows[j].Pair
	})
	return rows
}

// buildLanguageSummary 取各维度的最常用条目，输入行已按次数降序、字典序排好。
func buildLanguageSummary(sources, targets []LanguageUsageRow, pairs []PairAnalyticsRow) LanguageSummary {
	summary := LanguageSummary{
		UniqueSourceLanguages: len(sources),
		UniqueTargetLanguages: len(targets),
		UniqueLanguagePairs:   len(pairs),
	}
	if len(sources) > 0 {
		summary.MostUsedSource = sources[0].Language
	}
	if len(targets) > 0 {
		summary.MostUsedTarget = targets[0].Language
	}
	if len(pairs) > 0 {
		summary.MostUsedPair = pairs[0].Pair
	}
	return summary
}

// topRollupPairs 为仪表盘挑出最常用的语言对：次数降序，同次数取最近使用者。
func topRollupPairs(rollups []translation.PairRollup, limit int) []DashboardPair {
	sorted := make([]translation.PairRollup, len(rollups))
	copy(sorted, rollups)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].UsageCount != sorted[j].UsageCount {
			return sorted[i].UsageCount > sorted[j].UsageCount
		}
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]DashboardPair, 0, len(sorted))
	for _, r := range sorted {
		row := DashboardPair{
			Pair:          r.Pair(),
			Count:         r.UsageCount,
			AvgConfidence: r.AvgConfidence,
			LastUsed:      formatTime(r.LastUsed),
		}
		if r.UsageCount > 0 {
			row.AvgTimeMs = float64(r.TotalTimeMs) / float64(r.UsageCount)
		}
		rows = append(rows, row)
	}
	return rows
}
