package history

import (
	"sort"
	"strings"

	"github.com/lingua-rtt/translator-backend/internal/analytics"
	"github.com/lingua-rtt/translator-backend/internal/translation"
)

// Service 提供历史浏览、搜索与清空，全部建立在翻译事件存储之上。
type Service struct {
	store *translation.Store
}

func NewService(store *translation.Store) *Service {
	return &Service{store: store}
}

// List 分页返回用户历史，时间降序。
func (s *Service) List(userEmail string, filter translation.HistoryFilter, page, perPage int) ([]translation.Event, bool, error) {
	return s.store.ListByUser(userEmail, filter, page, perPage)
}

// SearchResult 是一条带相关度的搜索命中。
type SearchResult struct {
	Event     translation.Event
	Relevance int
}

// Search 对原文与译文做大小写不敏感的子串搜索，
// 相关度为查询串在两个字段中的出现总次数，相关度相同时保持时间降序。
func (s *Service) Search(userEmail, query string, limit int) ([]SearchResult, error) {
	events, err := s.store.SearchByText(userEmail, query, limit)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	results := make([]SearchResult, 0, len(events))
	for _, ev := range events {
		relevance := strings.Count(strings.ToLower(ev.OriginalText), lowered) +
			strings.Count(strings.ToLower(ev.TranslatedText), lowered)
		results = append(results, SearchResult{Event: ev, Relevance: relevance})
	}

	// 事件已按时间降序，稳定排序保证同分命中不乱序
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// Clear 删除用户的全部历史并使其分析视图缓存失效，返回删除的事件数。
func (s *Service) Clear(userEmail string) (int64, error) {
	deleted, err := s.store.DeleteAllForUser(userEmail)
	if err != nil {
		return 0, err
	}
	analytics.InvalidateUserViews(userEmail)
	return deleted, nil
}
