package history

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingua-rtt/translator-backend/internal/translation"
	"github.com/lingua-rtt/translator-backend/internal/user"
)

const (
	defaultPerPage     = 20
	defaultSearchLimit = 50
	maxSearchLimit     = 100
)

// eventView 是历史接口里一条翻译记录的对外形态。
type eventView struct {
	ID                uint     `json:"id"`
	SourceLanguage    string   `json:"source_language"`
	TargetLanguage    string   `json:"target_language"`
	OriginalText      string   `json:"original_text"`
	TranslatedText    string   `json:"translated_text"`
	TranslationType   string   `json:"translation_type"`
	CharacterCount    int      `json:"character_count"`
	TranslationTimeMs int      `json:"translation_time_ms"`
	ConfidenceScore   *float64 `json:"confidence_score,omitempty"`
	CreatedAt         string   `json:"created_at"`
	Relevance         int      `json:"relevance,omitempty"`
}

func toEventView(ev translation.Event) eventView {
	return eventView{
		ID:                ev.ID,
		SourceLanguage:    ev.SourceLanguage,
		TargetLanguage:    ev.TargetLanguage,
		OriginalText:      ev.OriginalText,
		TranslatedText:    ev.TranslatedText,
		TranslationType:   string(ev.TranslationType),
		CharacterCount:    ev.CharacterCount,
		TranslationTimeMs: ev.TranslationTimeMs,
		ConfidenceScore:   ev.ConfidenceScore,
		CreatedAt:         ev.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func requireEmail(c *gin.Context) (string, bool) {
	email := user.EmailFromContext(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "缺少用户标识"})
		return "", false
	}
	return email, true
}

// GetHistory 处理 GET /api/history?page=1&per_page=20&type=text
func GetHistory(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	page, err := positiveIntQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "page 必须是正整数"})
		return
	}
	perPage, err := positiveIntQuery(c, "per_page", defaultPerPage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "per_page 必须是正整数"})
		return
	}
	if perPage > translation.MaxPageSize {
		perPage = translation.MaxPageSize
	}

	var filter translation.HistoryFilter
	if raw := c.Query("type"); raw != "" {
		t := translation.Type(raw)
		if !t.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的翻译类型过滤"})
			return
		}
		filter.Type = t
	}

	events, hasMore, err := moduleService.List(email, filter, page, perPage)
	if err != nil {
		fmt.Printf("错误: 查询历史失败: %v\n", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "服务暂时不可用"})
		return
	}

	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, toEventView(ev))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": views,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"has_more": hasMore,
		},
	})
}

// SearchHistory 处理 GET /api/history/search?query=hello&limit=50
func SearchHistory(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "搜索关键词不能为空"})
		return
	}

	limit, err := positiveIntQuery(c, "limit", defaultSearchLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit 必须是正整数"})
		return
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := moduleService.Search(email, query, limit)
	if err != nil {
		fmt.Printf("错误: 搜索历史失败: %v\n", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "服务暂时不可用"})
		return
	}

	views := make([]eventView, 0, len(results))
	for _, r := range results {
		v := toEventView(r.Event)
		v.Relevance = r.Relevance
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   query,
		"results": views,
		"count":   len(views),
	})
}

type clearRequestBody struct {
	Confirm bool `json:"confirm"`
}

// ClearHistory 处理 POST /api/history/clear，必须显式携带 confirm=true。
func ClearHistory(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}

	var body clearRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || !body.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "清空历史需要 confirm=true"})
		return
	}

	deleted, err := moduleService.Clear(email)
	if err != nil {
		fmt.Printf("错误: 清空历史失败: %v\n", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "服务暂时不可用"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "翻译历史已清空",
		"deleted_count": deleted,
	})
}

func positiveIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return 0, fmt.Errorf("参数 %s 非法: %q", name, raw)
	}
	return parsed, nil
}
