package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lingua-rtt/translator-backend/internal/platform/config"
)

// ProviderResult 是一次成功的上游翻译调用的结果。
type ProviderResult struct {
	TranslatedText string
	// Confidence 在上游返回检测置信度时携带，0.0–1.0。
	Confidence *float64
}

// Provider 抽象上游翻译服务，便于在网关测试中注入假实现。
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*ProviderResult, error)
}

// UpstreamError 携带上游调用失败的分类信息。
// Transient 为 true 时网关按退避策略重试，否则立即失败。
type UpstreamError struct {
	StatusCode int
	Transient  bool
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("上游翻译服务返回 %d: %s", e.StatusCode, e.Message)
	}
	return "上游翻译服务不可达: " + e.Message
}

// HTTPProvider 通过HTTP JSON协议调用可配置的翻译服务。
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider 按配置构造上游客户端，单次调用受超时约束。
func NewHTTPProvider(cfg config.ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

// 上游的请求与响应体结构
type providerRequestBody struct {
	Text   string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type providerResponseBody struct {
	TranslatedText string   `json:"translatedText"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Translate 执行一次上游调用。
// 超时、连接错误与5xx归为瞬时错误；4xx视为永久错误，不应重试。
func (p *HTTPProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*ProviderResult, error) {
	payload, err := json.Marshal(providerRequestBody{
		Text:   text,
		Source: sourceLang,
		Target: targetLang,
		APIKey: p.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化上游请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("构造上游请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// 网络层失败（超时、连接被拒等）一律视为瞬时
		return nil, &UpstreamError{Transient: true, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Transient: true, Message: "读取上游响应失败: " + err.Error()}
	}

	if resp.StatusCode >= 500 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Transient: true, Message: upstreamMessage(body)}
	}
	if resp.StatusCode >= 400 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Transient: false, Message: upstreamMessage(body)}
	}

	var parsed providerResponseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Transient: true, Message: "上游响应不是合法JSON"}
	}

	// 空译文视为一次无效响应，交给重试逻辑处理
	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Transient: true, Message: "上游返回了空译文"}
	}

	return &ProviderResult{
		TranslatedText: strings.TrimSpace(parsed.TranslatedText),
		Confidence:     parsed.Confidence,
	}, nil
}

// upstreamMessage 尽力从上游错误响应中提取可读信息。
func upstreamMessage(body []byte) string {
	var parsed providerResponseBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
