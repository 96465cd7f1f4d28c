package translation

import (
	"errors"
	"fmt"
)

// ErrorKind 标记网关失败的类别，Handler据此决定HTTP状态码，
// 重试循环据此决定每类失败是重试还是立即失败。
type ErrorKind int

const (
	// ErrInvalidInput 调用方错误，不重试，原样返回。
	ErrInvalidInput ErrorKind = iota + 1
	// ErrRateLimited 调用方错误，携带重试提示，不在内部重试。
	ErrRateLimited
	// ErrUpstreamUnavailable 上游瞬时故障在内部重试耗尽后的最终结果。
	ErrUpstreamUnavailable
	// ErrPersistenceUnavailable 事件写入失败，由调用方决定是否整体重试。
	ErrPersistenceUnavailable
)

// GatewayError 是网关所有失败路径的带标签结果。
type GatewayError struct {
	Kind   ErrorKind
	Reason string
	// RetryAfterSeconds 仅在 ErrRateLimited 时有意义，向上取整。
	RetryAfterSeconds int
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case ErrRateLimited:
		return fmt.Sprintf("请求过于频繁，请在 %d 秒后重试", e.RetryAfterSeconds)
	default:
		return e.Reason
	}
}

func newInvalidInput(reason string) *GatewayError {
	return &GatewayError{Kind: ErrInvalidInput, Reason: reason}
}

func newRateLimited(retryAfterSeconds int) *GatewayError {
	return &GatewayError{Kind: ErrRateLimited, RetryAfterSeconds: retryAfterSeconds}
}

func newUpstreamUnavailable(reason string) *GatewayError {
	return &GatewayError{Kind: ErrUpstreamUnavailable, Reason: reason}
}

func newPersistenceUnavailable(reason string) *GatewayError {
	return &GatewayError{Kind: ErrPersistenceUnavailable, Reason: reason}
}

// AsGatewayError 从错误链中提取GatewayError。
func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
