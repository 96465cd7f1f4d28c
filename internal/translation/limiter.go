package translation

import (
	"math"
	"sync"
	"time"
)

// AdmissionLimiter 维护每个用户最近一次被接纳的翻译时间，
// 在冷却窗口内拒绝同一用户的后续请求。
// 时间戳在准入判定时写入而不是调用结束时，缓慢的上游调用
// 不会让同一用户攒出一串并发请求。
type AdmissionLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	// lastAccepted 按用户记录最近一次准入的时刻。
	lastAccepted map[string]time.Time
}

// pruneThreshold 控制过期条目的惰性清理时机，避免长期运行下map无界增长。
const pruneThreshold = 4096

// NewAdmissionLimiter 创建一个冷却窗口为cooldown的准入限制器。
func NewAdmissionLimiter(cooldown time.Duration) *AdmissionLimiter {
	return &AdmissionLimiter{
		cooldown:     cooldown,
		lastAccepted: make(map[string]time.Time),
	}
}

// TryAdmit 对一个用户执行原子的检查并记录。
// 准入成功返回 (0, true)；仍在冷却期时返回 (剩余秒数向上取整, false)。
// 锁只覆盖这次判定本身，不等待任何I/O。
func (l *AdmissionLimiter) TryAdmit(userEmail string, now time.Time) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastAccepted[userEmail]; ok {
		remaining := l.cooldown - now.Sub(last)
		if remaining > 0 {
			seconds := int(math.Ceil(remaining.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			return seconds, false
		}
	}

	if len(l.lastAccepted) >= pruneThreshold {
		l.pruneLocked(now)
	}

	l.lastAccepted[userEmail] = now
	return 0, true
}

// pruneLocked 删除已经出冷却期的条目，必须在持锁状态下调用。
func (l *AdmissionLimiter) pruneLocked(now time.Time) {
	for email, last := range l.lastAccepted {
		if now.Sub(last) >= l.cooldown {
			delete(l.lastAccepted, email)
		}
	}
}
