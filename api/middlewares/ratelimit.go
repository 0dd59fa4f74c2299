package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/inference-gateway/support-chat/logger"
)

// idleLimiterTTL is how long an unused client limiter is kept
const idleLimiterTTL = 10 * time.Minute

type RateLimiter interface {
	Middleware() gin.HandlerFunc
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterImpl applies a token bucket per client IP
type RateLimiterImpl struct {
	logger  logger.Logger
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

// RateLimiterNoop is used when rate limiting is disabled
type RateLimiterNoop struct{}

// NewRateLimiter returns a limiter allowing rps requests per second per client.
// A non-positive rps disables limiting.
func NewRateLimiter(l logger.Logger, rps float64, burst int) RateLimiter {
	if rps <= 0 {
		return &RateLimiterNoop{}
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiterImpl{
		logger:  l,
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: map[string]*clientLimiter{},
		now:     time.Now,
	}
}

func (r *RateLimiterNoop) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

func (r *RateLimiterImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := r.limiter(key)

		reservation := limiter.ReserveN(r.now(), 1)
		if delay := reservation.DelayFrom(r.now()); delay > 0 {
			reservation.CancelAt(r.now())
			retryAfter := int(math.Ceil(delay.Seconds()))
			r.logger.Debug("rate limit exceeded", "client", key, "retry_after", retryAfter)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down."})
			return
		}

		c.Next()
	}
}

func (r *RateLimiterImpl) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, cl := range r.clients {
		if now.Sub(cl.lastSeen) > idleLimiterTTL {
			delete(r.clients, k)
		}
	}

	cl, ok := r.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}
