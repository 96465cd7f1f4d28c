package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lingua-rtt/translator-backend/internal/language"
)

// TranslateRequest 是网关的入参。
type TranslateRequest struct {
	UserEmail  string
	Text       string
	SourceLang string
	TargetLang string
	Type       Type
	// Origin 是请求来源地址，随事件一并落盘。
	Origin string
}

// TranslateResult 是网关成功时的出参。
type TranslateResult struct {
	TranslatedText string
	ElapsedMs      int
	Confidence     *float64
	EventID        uint
}

// GatewayOptions 收拢网关的可调参数。
type GatewayOptions struct {
	MaxTextLength int
	MaxAttempts   int
}

// Gateway 在上游翻译服务前实现准入控制与重试退避，
// 并保证每次成功调用恰好产生一次事件落盘。
type Gateway struct {
	provider Provider
	store    *Store
	limiter  *AdmissionLimiter

	maxTextLength int
	maxAttempts   int

	// now 与 sleep 可在测试中替换
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGateway 组装一个翻译网关。
func NewGateway(provider Provider, store *Store, limiter *AdmissionLimiter, opts GatewayOptions) *Gateway {
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 5000
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	return &Gateway{
		provider:      provider,
		store:         store,
		limiter:       limiter,
		maxTextLength: opts.MaxTextLength,
		maxAttempts:   opts.MaxAttempts,
		now:           func() time.Time { return time.Now().UTC() },
		sleep:         sleepWithContext,
	}
}

// Translate 执行一次完整的网关调用：
// 校验入参、准入判定、带退避的上游调用、原子事件落盘。
// 所有失败都以 *GatewayError 返回，调用方按Kind分支处理。
func (g *Gateway) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	// 1. 入参校验，全部属于不重试的调用方错误
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, newInvalidInput("翻译文本不能为空")
	}
	charCount := utf8.RuneCountInString(text)
	if charCount > g.maxTextLength {
		return nil, newInvalidInput(fmt.Sprintf("翻译文本超过最大长度 %d", g.maxTextLength))
	}
	if !language.IsSupported(req.SourceLang) {
		return nil, newInvalidInput("不支持的源语言: " + req.SourceLang)
	}
	if !language.IsSupported(req.TargetLang) {
		return nil, newInvalidInput("不支持的目标语言: " + req.TargetLang)
	}
	if req.Type == "" {
		req.Type = TypeText
	}
	if !req.Type.IsValid() {
		return nil, newInvalidInput("无效的翻译类型: " + string(req.Type))
	}

	// 2. 准入判定。冷却时间戳在此刻写入，之后无论调用成败、
	// 调用方是否中途放弃，窗口都照常走完。
	start := g.now()
	if retryAfter, ok := g.limiter.TryAdmit(req.UserEmail, start); !ok {
		return nil, newRateLimited(retryAfter)
	}

	// 3. 带指数退避的上游调用
	result, err := g.callWithRetry(ctx, text, req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, err
	}

	elapsedMs := int(g.now().Sub(start).Milliseconds())

	// 4. 恰好一次的事件落盘，失败则整次调用按失败上报
	event := &Event{
		UserEmail:         req.UserEmail,
		SourceLanguage:    req.SourceLang,
		TargetLanguage:    req.TargetLang,
		OriginalText:      text,
		TranslatedText:    result.TranslatedText,
		TranslationType:   req.Type,
		CharacterCount:    charCount,
		TranslationTimeMs: elapsedMs,
		ConfidenceScore:   result.Confidence,
		IPAddress:         req.Origin,
	}
	if err := g.store.Append(event); err != nil {
		return nil, newPersistenceUnavailable("翻译结果未能入账: " + err.Error())
	}

	return &TranslateResult{
		TranslatedText: result.TranslatedText,
		ElapsedMs:      elapsedMs,
		Confidence:     result.Confidence,
		EventID:        event.ID,
	}, nil
}

// callWithRetry 执行上游调用，瞬时失败按 2^(n-1) 秒退避重试。
// maxAttempts=5 时等待序列为 2s、4s、8s、16s，累计30秒后放弃。
func (g *Gateway) callWithRetry(ctx context.Context, text, sourceLang, targetLang string) (*ProviderResult, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			if err := g.sleep(ctx, backoff); err != nil {
				// 调用方已放弃等待，冷却窗口不回退
				return nil, newUpstreamUnavailable("请求在等待重试时被取消")
			}
		}

		result, err := g.provider.Translate(ctx, text, sourceLang, targetLang)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ue, ok := err.(*UpstreamError); ok && !ue.Transient {
			// 永久性失败（如上游拒绝该语言参数）不重试
			return nil, newInvalidInput("上游拒绝了该请求: " + ue.Message)
		}
	}

	return nil, newUpstreamUnavailable(fmt.Sprintf("上游翻译服务暂时不可用（已重试%d次）: %v", g.maxAttempts, lastErr))
}

// sleepWithContext 等待指定时长，上下文取消时提前返回错误。
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
