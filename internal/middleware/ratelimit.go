package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"multizone/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenBucketScript implements the token bucket algorithm in redis.
// Input: ARGV[1]=rate, ARGV[2]=capacity, ARGV[3]=now, ARGV[4]=requested
// Output: { allowed, remaining }
var tokenBucketScript = redis.NewScript(`
local tokens_key = KEYS[1]
local ts_key = KEYS[2]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local ttl = math.ceil(capacity / rate * 2)

local last_tokens = tonumber(redis.call("get", tokens_key))
if last_tokens == nil then last_tokens = capacity end

local last_ts = tonumber(redis.call("get", ts_key))
if last_ts == nil then last_ts = now end

local delta = math.max(0, now - last_ts)
local filled = math.min(capacity, last_tokens + (delta * rate))
local allowed = 0

if filled >= requested then
    allowed = 1
    filled = filled - requested
    redis.call("set", tokens_key, filled, "EX", ttl)
    redis.call("set", ts_key, now, "EX", ttl)
end

return { allowed, filled }
`)

// localLimiter is the per-IP in-process fallback used when redis is down.
type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	localLimiters sync.Map
	cleanupOnce   sync.Once
)

func startLimiterCleanup() {
	cleanupOnce.Do(func() {
		ticker := time.NewTicker(10 * time.Minute)
		go func() {
			for range ticker.C {
				now := time.Now()
				localLimiters.Range(func(key, value any) bool {
					if now.Sub(value.(*localLimiter).lastSeen) > 10*time.Minute {
						localLimiters.Delete(key)
					}
					return true
				})
			}
		}()
	})
}

func getLocalLimiter(ip string, r rate.Limit, burst int) *rate.Limiter {
	startLimiterCleanup()

	if val, ok := localLimiters.Load(ip); ok {
		l := val.(*localLimiter)
		l.lastSeen = time.Now()
		return l.limiter
	}

	l := &localLimiter{limiter: rate.NewLimiter(r, burst), lastSeen: time.Now()}
	localLimiters.Store(ip, l)
	return l.limiter
}

// RateLimitMiddleware bounds write throughput per client IP using a redis
// token bucket. When redis is unreachable the limiter fails open to a local
// per-IP bucket, so the service keeps working without redis.
func RateLimitMiddleware(rdb *redis.Client, requestsPerSecond int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	burst := requestsPerSecond

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		tokensKey := "ratelimit:" + clientIP + ":tokens"
		tsKey := "ratelimit:" + clientIP + ":ts"

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerSecond))

		now := float64(time.Now().UnixMicro()) / 1e6
		args := []any{float64(requestsPerSecond), float64(burst), now, 1}

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		result, err := tokenBucketScript.Run(ctx, rdb, []string{tokensKey, tsKey}, args...).Result()
		if err != nil {
			logger.Warn("redis rate limit unavailable, using local fallback",
				zap.Error(err),
				zap.String("ip", clientIP))

			limiter := getLocalLimiter(clientIP, rate.Limit(requestsPerSecond), burst)
			if !limiter.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
				return
			}
			c.Next()
			return
		}

		res, ok := result.([]any)
		if !ok || len(res) != 2 {
			logger.Error("unexpected rate limit script response", zap.Any("response", result))
			c.Next() // fail open on protocol error
			return
		}

		allowed, _ := res[0].(int64)
		remaining, _ := res[1].(int64)
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if allowed != 1 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}

		c.Next()
	}
}
