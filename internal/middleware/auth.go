package middleware

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/handler"
	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/pkg/httpcontext"
)

// Verifier turns a bearer credential into a subject id.
type Verifier interface {
	Verify(raw string) (string, error)
}

// JWTAuth rejects requests without a valid bearer token and records the
// verified subject on the request for the handlers.
func JWTAuth(verifier Verifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx)
				return
			}

			subject, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Debug("invalid jwt token",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err))
				unauthorized(ctx)
				return
			}

			httpcontext.SetSubject(ctx, subject)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set(fasthttp.HeaderWWWAuthenticate, "Bearer")
	handler.WriteError(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), domain.ErrUnauthorized)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
