package middleware

import (
	"net/http"

	"github.com/benvon/launch-coach/internal/request"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultRateLimit is the per-client rate applied when none is configured.
// Plan creation triggers an LLM call, so the API is limited conservatively.
const DefaultRateLimit = "30-M"

// RateLimit returns middleware that limits requests per client IP using
// ulule/limiter backed by Redis. rate uses the limiter format, e.g. "30-M"
// for 30 requests per minute.
func RateLimit(redisLimiter *RedisRateLimiter, rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = DefaultRateLimit
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store, err := redisstore.NewStore(redisLimiter.Client())
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, parsed)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
