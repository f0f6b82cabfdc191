package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	authUC "github.com/fastygo/tasklists/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Exchange client credentials for a bearer token
// @Tags auth
// @Router /v1/auth/token [post]
func (h *AuthHandler) Token(ctx *fasthttp.RequestCtx) {
	var req transport.TokenRequest
	if !h.decode(ctx, transport.TokenSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, err := h.uc.Exchange(stdCtx, req.ClientID, req.ClientSecret)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.Set(fasthttp.HeaderCacheControl, "no-store")
	h.respondJSON(ctx, http.StatusOK, token)
}

// @Summary Register a client credential
// @Tags auth
// @Router /v1/auth/clients [post]
func (h *AuthHandler) RegisterClient(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	var req transport.ClientRegisterRequest
	if !h.decode(ctx, transport.ClientRegisterSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	client, err := h.uc.Register(stdCtx, subject, authUC.RegisterInput{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Name:         req.Name,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, client)
}
