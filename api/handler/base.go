package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/domain"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	appLogger "github.com/fastygo/tasklists/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	WriteJSON(ctx, status, payload)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		appLogger.FromContext(stdCtx, h.logger).Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
	WriteError(ctx, status, code, err)
}

// subject returns the verified subject or writes a 401 when the route was
// reached without authentication.
func (h baseHandler) subject(ctx *fasthttp.RequestCtx) (string, bool) {
	subject := httpcontext.Subject(ctx)
	if subject == "" {
		WriteError(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), domain.ErrUnauthorized)
		return "", false
	}
	return subject, true
}

// decode validates the request body against schema into dst, answering the
// request itself when the body is rejected.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, schema *jsonschema.Schema, dst interface{}) bool {
	if err := transport.Decode(ctx.PostBody(), schema, dst); err != nil {
		status, code := mapError(err)
		WriteError(ctx, status, code, err)
		return false
	}
	return true
}

// pathID reads a UUID path parameter.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx, name string) (string, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		verr := domain.Validation(domain.FieldError{Field: name, Message: "must be a valid UUID"})
		WriteError(ctx, http.StatusUnprocessableEntity, string(verr.Code), verr)
		return "", false
	}
	return id.String(), true
}

// page reads the page and limit query parameters, applying defaults and bounds.
func (h baseHandler) page(ctx *fasthttp.RequestCtx) (domain.Page, bool) {
	args := ctx.QueryArgs()
	def := domain.DefaultPage()

	var fields []domain.FieldError
	number, ok := queryInt(args, "page", def.Number)
	if !ok {
		fields = append(fields, domain.FieldError{Field: "page", Message: "must be an integer"})
	}
	limit, ok := queryInt(args, "limit", def.Limit)
	if !ok {
		fields = append(fields, domain.FieldError{Field: "limit", Message: "must be an integer"})
	}

	var (
		page domain.Page
		err  error
	)
	if len(fields) > 0 {
		err = domain.Validation(fields...)
	} else {
		page, err = domain.NewPage(number, limit)
	}
	if err != nil {
		status, code := mapError(err)
		WriteError(ctx, status, code, err)
		return domain.Page{}, false
	}
	return page, true
}

func queryInt(args *fasthttp.Args, key string, fallback int) (int, bool) {
	if !args.Has(key) {
		return fallback, true
	}
	v, err := strconv.Atoi(string(args.Peek(key)))
	if err != nil {
		return 0, false
	}
	return v, true
}

// WriteJSON serializes payload as the response body.
func WriteJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// WriteError renders err as an ErrorBody. Field errors become details and
// wrapped causes are never exposed.
func WriteError(ctx *fasthttp.RequestCtx, status int, code string, err error) {
	message := http.StatusText(status)
	var details interface{}

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		message = dErr.Message
		if len(dErr.Fields) > 0 {
			details = dErr.Fields
		}
	}
	WriteJSON(ctx, status, transport.NewError(code, message, details))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeInvalidTransition):
		return http.StatusBadRequest, string(domain.ErrCodeInvalidTransition)
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeValidation)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeRateLimited):
		return http.StatusTooManyRequests, string(domain.ErrCodeRateLimited)
	case domain.IsDomainError(err, domain.ErrCodeStoreUnavailable):
		return http.StatusInternalServerError, string(domain.ErrCodeStoreUnavailable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
