package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/handler"
	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/internal/ratelimit"
	"github.com/fastygo/tasklists/pkg/httpcontext"
)

// RateLimit admits requests through limiter keyed by source address. Denied
// requests get a 429 with Retry-After set to the window length. Limiter
// failures let the request through.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	retryAfter := strconv.Itoa(int(limiter.Window() / time.Second))

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			key := ctx.RemoteIP().String()

			checkCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			allowed, err := limiter.Allow(checkCtx, key, time.Now())
			cancel()
			if err != nil {
				logger.Warn("rate limiter unavailable",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.String("remote_ip", key),
					zap.Error(err))
				next(ctx)
				return
			}
			if !allowed {
				ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, retryAfter)
				handler.WriteJSON(ctx, http.StatusTooManyRequests, transport.NewError(
					string(domain.ErrCodeRateLimited), "Too Many Requests", "Rate limit exceeded"))
				return
			}
			next(ctx)
		}
	}
}
