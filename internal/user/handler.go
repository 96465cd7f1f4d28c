package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lingua-rtt/translator-backend/internal/language"
)

// profileView 是返回给前端的用户画像结构。
type profileView struct {
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	PreferredSourceLang string `json:"preferred_source_lang"`
	PreferredTargetLang string `json:"preferred_target_lang"`
	TotalTranslations   int    `json:"total_translations"`
	TotalCharacters     int64  `json:"total_characters"`
	MemberSince         string `json:"member_since"`
	LastLogin           string `json:"last_login,omitempty"`
}

func newProfileView(u *User) profileView {
	view := profileView{
		Email:               u.Email,
		FullName:            u.FullName,
		PreferredSourceLang: u.PreferredSourceLang,
		PreferredTargetLang: u.PreferredTargetLang,
		TotalTranslations:   u.TotalTranslations,
		TotalCharacters:     u.TotalCharacters,
		MemberSince:         u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		view.LastLogin = u.LastLogin.UTC().Format(time.RFC3339)
	}
	return view
}

// Login 处理 POST /api/user/login
// 认证本身由外部服务完成，这里只登记登录事件并返回画像。
func Login(c *gin.Context) {
	email := EmailFromContext(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "缺少用户身份"})
		return
	}

	u, err := TouchLogin(email)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "登记登录事件失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": newProfileView(u)})
}

// preferencesRequestBody 定义了更新语言偏好的请求体。
type preferencesRequestBody struct {
	PreferredSourceLang *string `json:"preferred_source_lang"`
	PreferredTargetLang *string `json:"preferred_target_lang"`
}

// HandleUpdatePreferences 处理 PUT /api/user/preferences
func HandleUpdatePreferences(c *gin.Context) {
	email := EmailFromContext(c)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "缺少用户身份"})
		return
	}

	var body preferencesRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "请求格式错误: " + err.Error()})
		return
	}

	for _, code := range []*string{body.PreferredSourceLang, body.PreferredTargetLang} {
		if code != nil && !language.IsSupported(*code) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "不支持的语言代码: " + *code})
			return
		}
	}

	u, err := UpdatePreferences(email, body.PreferredSourceLang, body.PreferredTargetLang)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "用户不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": newProfileView(u)})
}
