package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a user's limiter is kept after its last request.
const idleLimiterTTL = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per signed-in user. It must run after
// AuthMiddleware; anonymous requests share one bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	limit    rate.Limit
	burst    int
	metrics  *metrics.Metrics
	now      func() time.Time
	lastGC   time.Time
}

// NewRateLimiter allows perMinute requests per user with the given burst.
// m may be nil.
func NewRateLimiter(perMinute float64, burst int, m *metrics.Metrics) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*userLimiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		metrics:  m,
		now:      time.Now,
	}
}

// Limit rejects requests over the user's rate with 429 and a Retry-After header.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := shared.CurrentUser(r.Context())

		res := l.reserve(userID)
		delay := time.Minute
		if res.OK() {
			delay = res.DelayFrom(l.now())
		}
		if delay > 0 {
			res.CancelAt(l.now())
			l.metrics.ObserveRateLimited()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many generation requests, please try again later", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) reserve(userID string) *rate.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > idleLimiterTTL {
		for id, ul := range l.limiters {
			if now.Sub(ul.lastSeen) > idleLimiterTTL {
				delete(l.limiters, id)
			}
		}
		l.lastGC = now
	}

	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.ReserveN(now, 1)
}
