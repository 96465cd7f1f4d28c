package translation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingua-rtt/translator-backend/internal/language"
	"github.com/lingua-rtt/translator-backend/internal/user"
)

// translateRequestBody 定义了前端提交翻译时请求体的JSON结构。
// 语言可以用代码或名称给出，名称会先被折算成代码。
type translateRequestBody struct {
	Text           string `json:"text" binding:"required"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	SourceLangName string `json:"source_lang_name"`
	TargetLangName string `json:"target_lang_name"`
	Type           string `json:"type"`
}

// HandleTranslate 处理 POST /api/translate
func HandleTranslate(c *gin.Context) {
	email := user.EmailFromContext(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "缺少用户身份"})
		return
	}

	var body translateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "请求格式错误: " + err.Error()})
		return
	}

	sourceLang := body.SourceLang
	if sourceLang == "" && body.SourceLangName != "" {
		sourceLang = language.CodeForName(body.SourceLangName)
	}
	targetLang := body.TargetLang
	if targetLang == "" && body.TargetLangName != "" {
		targetLang = language.CodeForName(body.TargetLangName)
	}
	if sourceLang == "" || targetLang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "必须提供源语言和目标语言"})
		return
	}

	// 事件落盘带外键式的用户计数更新，先确保用户存在
	if _, err := user.GetOrCreate(email); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "用户数据不可用"})
		return
	}

	result, err := moduleGateway.Translate(c.Request.Context(), TranslateRequest{
		UserEmail:  email,
		Text:       body.Text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Type:       Type(body.Type),
		Origin:     c.ClientIP(),
	})
	if err != nil {
		writeGatewayError(c, err)
		return
	}

	response := gin.H{
		"success":             true,
		"original_text":       body.Text,
		"translated_text":     result.TranslatedText,
		"source_lang":         sourceLang,
		"target_lang":         targetLang,
		"source_lang_name":    language.Name(sourceLang),
		"target_lang_name":    language.Name(targetLang),
		"translation_time_ms": result.ElapsedMs,
	}
	if result.Confidence != nil {
		response["confidence"] = *result.Confidence
	}
	c.JSON(http.StatusOK, response)
}

// writeGatewayError 把带标签的网关错误映射为HTTP响应。
func writeGatewayError(c *gin.Context, err error) {
	ge, ok := AsGatewayError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "翻译失败: " + err.Error()})
		return
	}

	switch ge.Kind {
	case ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ge.Error()})
	case ErrRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success":     false,
			"error":       ge.Error(),
			"retry_after": ge.RetryAfterSeconds,
		})
	case ErrUpstreamUnavailable, ErrPersistenceUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": ge.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": ge.Error()})
	}
}

// GetLanguages 处理 GET /api/languages
func GetLanguages(c *gin.Context) {
	options := language.Sorted()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"languages": options,
		"count":     len(options),
	})
}
