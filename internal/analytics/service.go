package analytics

import (
	"fmt"
	"time"

	"github.com/lingua-rtt/translator-backend/internal/user"
)

// Service 组装各报表视图：取数、纯函数聚合、读写视图缓存。
type Service struct {
	repo     *repository
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo *repository, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// periodDays 把 period 参数映射到窗口长度，0 表示不限时间。
var periodDays = map[string]int{
	"7":   7,
	"30":  30,
	"90":  90,
	"all": 0,
}

// ValidPeriod 报告 period 参数是否可用。
func ValidPeriod(period string) bool {
	_, ok := periodDays[period]
	return ok
}

func buildUserInfo(u *user.User) UserInfo {
	info := UserInfo{
		Email:               u.Email,
		FullName:            u.FullName,
		PreferredSourceLang: u.PreferredSourceLang,
		PreferredTargetLang: u.PreferredTargetLang,
		TotalTranslations:   u.TotalTranslations,
		TotalCharacters:     u.TotalCharacters,
		MemberSince:         formatTime(u.CreatedAt),
	}
	if u.LastLogin != nil {
		info.LastLogin = formatTime(*u.LastLogin)
	}
	return info
}

// Dashboard 生成仪表盘视图：用户画像、快速统计、最近翻译、常用语言对。
func (s *Service) Dashboard(userEmail string) (*DashboardView, error) {
	cacheKey := viewCacheKey(userEmail, "dashboard")
	var cached DashboardView
	if getCachedView(cacheKey, &cached) {
		return &cached, nil
	}

	u, err := user.GetByEmail(userEmail)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekStart := now.AddDate(0, 0, -7)
	events, err := s.repo.eventsSince(userEmail, &weekStart)
	if err != nil {
		return nil, fmt.Errorf("查询近期翻译事件失败: %w", err)
	}
	recent, err := s.repo.recentEvents(userEmail, 5)
	if err != nil {
		return nil, fmt.Errorf("查询最近翻译失败: %w", err)
	}
	rollups, err := s.repo.rollups(userEmail)
	if err != nil {
		return nil, fmt.Errorf("查询语言对聚合失败: %w", err)
	}

	view := &DashboardView{
		Success:            true,
		UserInfo:           buildUserInfo(u),
		QuickStats:         buildQuickStats(events, now),
		RecentTranslations: make([]RecentEvent, 0, len(recent)),
		TopLanguagePairs:   topRollupPairs(rollups, 5),
	}
	for _, ev := range recent {
		view.RecentTranslations = append(view.RecentTranslations, RecentEvent{
			ID:                ev.ID,
			SourceLanguage:    ev.SourceLanguage,
			TargetLanguage:    ev.TargetLanguage,
			OriginalText:      ev.OriginalText,
			TranslatedText:    ev.TranslatedText,
			CharacterCount:    ev.CharacterCount,
			TranslationTimeMs: ev.TranslationTimeMs,
			CreatedAt:         formatTime(ev.CreatedAt),
		})
	}

	setCachedView(cacheKey, view, s.cacheTTL)
	return view, nil
}

// Statistics 生成周期统计视图，period 取 "7"、"30"、"90" 或 "all"。
func (s *Service) Statistics(userEmail, period string) (*StatisticsView, error) {
	days, ok := periodDays[period]
	if !ok {
		return nil, fmt.Errorf("无效的统计周期: %s", period)
	}

	cacheKey := viewCacheKey(userEmail, "statistics:"+period)
	var cached StatisticsView
	if getCachedView(cacheKey, &cached) {
		return &cached, nil
	}

	u, err := user.GetByEmail(userEmail)
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if days > 0 {
		start := s.now().AddDate(0, 0, -days)
		since = &start
	}
	events, err := s.repo.eventsSince(userEmail, since)
	if err != nil {
		return nil, fmt.Errorf("查询翻译事件失败: %w", err)
	}

	view := &StatisticsView{
		Success:           true,
		Period:            period,
		UserInfo:          buildUserInfo(u),
		Overall:           buildOverall(events),
		DailyActivity:     buildDailyActivity(events),
		HourlyPatterns:    buildHourlyPatterns(events),
		TopLanguagePairs:  buildTopPairs(events),
		PerformanceByType: buildPerformanceByType(events),
	}

	setCachedView(cacheKey, view, s.cacheTTL)
	return view, nil
}

// DailyAnalytics 生成逐日分析视图，days 已在入口处钳制到 [1, 365]。
func (s *Service) DailyAnalytics(userEmail string, days int) (*DailyAnalyticsView, error) {
	cacheKey := viewCacheKey(userEmail, fmt.Sprintf("daily:%d", days))
	var cached DailyAnalyticsView
	if getCachedView(cacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	start := now.AddDate(0, 0, -days)
	events, err := s.repo.eventsSince(userEmail, &start)
	if err != nil {
		return nil, fmt.Errorf("查询翻译事件失败: %w", err)
	}

	rows := buildDailyDetail(events)
	view := &DailyAnalyticsView{
		Success:   true,
		Days:      days,
		DailyData: rows,
		Summary:   buildDailySummary(rows, days, computeTrend(events, days, now)),
	}

	setCachedView(cacheKey, view, s.cacheTTL)
	return view, nil
}

// LanguageAnalytics 生成语言维度分析：单语言行从事件重算，语言对行取自聚合表。
func (s *Service) LanguageAnalytics(userEmail string) (*LanguageAnalyticsView, error) {
	cacheKey := viewCacheKey(userEmail, "languages")
	var cached LanguageAnalyticsView
	if getCachedView(cacheKey, &cached) {
		return &cached, nil
	}

	events, err := s.repo.eventsSince(userEmail, nil)
	if err != nil {
		return nil, fmt.Errorf("查询翻译事件失败: %w", err)
	}
	rollups, err := s.repo.rollups(userEmail)
	if err != nil {
		return nil, fmt.Errorf("查询语言对聚合失败: %w", err)
	}

	sources := buildLanguageUsage(events, func(ev eventRecord) string { return ev.SourceLanguage })
	targets := buildLanguageUsage(events, func(ev eventRecord) string { return ev.TargetLanguage })
	pairs := buildPairAnalytics(rollups)
	view := &LanguageAnalyticsView{
		Success:         true,
		SourceLanguages: sources,
		TargetLanguages: targets,
		LanguagePairs:   pairs,
		Summary:         buildLanguageSummary(sources, targets, pairs),
	}

	setCachedView(cacheKey, view, s.cacheTTL)
	return view, nil
}
