package echoServer

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const defaultLimiterIdle = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the idle window are dropped on a later lookup.
type IPRateLimiter struct {
	limiters  sync.Map // ip -> *ipLimiter
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastPrune atomic.Int64
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &IPRateLimiter{rate: r, burst: burst, idle: defaultLimiterIdle, now: time.Now}
	l.lastPrune.Store(l.now().UnixNano())
	return l
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := l.now().UnixNano()
	l.maybePrune(now)

	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &ipLimiter{lim: rate.NewLimiter(l.rate, l.burst)})
	}
	e := v.(*ipLimiter)
	e.lastSeen.Store(now)
	return e.lim
}

// maybePrune runs at most once per idle window; one caller wins the swap.
func (l *IPRateLimiter) maybePrune(now int64) {
	last := l.lastPrune.Load()
	if now-last < int64(l.idle) || !l.lastPrune.CompareAndSwap(last, now) {
		return
	}
	l.prune(now)
}

func (l *IPRateLimiter) prune(now int64) {
	cutoff := now - int64(l.idle)
	l.limiters.Range(func(k, v any) bool {
		if v.(*ipLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(k)
		}
		return true
	})
}

// Len reports how many client buckets are held.
func (l *IPRateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func RateLimit(l *IPRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.GetLimiter(c.RealIP()).Allow() {
				retry := 1
				if l.rate > 0 {
					retry = int(math.Ceil(1 / float64(l.rate)))
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "too many requests"})
			}
			return next(c)
		}
	}
}
