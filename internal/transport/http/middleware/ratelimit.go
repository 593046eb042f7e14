package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "storefront/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooMany, "too many requests")
	}
}

const ipIdleTTL = 10 * time.Minute

type ipEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipLimiters 按 IP 分桶；空闲超过 idle 的桶在下一次清扫时移除
type ipLimiters struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	buckets   map[string]*ipEntry
}

func newIPLimiters(rps rate.Limit, burst int, idle time.Duration, now func() time.Time) *ipLimiters {
	// 桶未回满前不能丢，否则等于给客户端重置额度
	if rps > 0 && rps != rate.Inf {
		if refill := time.Duration(float64(burst) / float64(rps) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &ipLimiters{
		rps:       rps,
		burst:     burst,
		idle:      idle,
		now:       now,
		lastSweep: now(),
		buckets:   make(map[string]*ipEntry),
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for k, e := range l.buckets {
			if now.Sub(e.seen) >= l.idle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	e, ok := l.buckets[ip]
	if !ok {
		e = &ipEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = e
	}
	e.seen = now
	return e.lim
}

func (l *ipLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *ipLimiters) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.get(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooMany, "too many requests")
	}
}

// RateLimitPerIP 每 IP 限速（登录/注册防爆破）
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	return newIPLimiters(rps, burst, ipIdleTTL, time.Now).handler()
}
