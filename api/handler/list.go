package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	listUC "github.com/fastygo/tasklists/usecase/list"
)

type ListHandler struct {
	baseHandler
	uc *listUC.UseCase
}

func NewListHandler(uc *listUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ListHandler {
	return &ListHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create a list
// @Tags lists
// @Router /v1/lists [post]
func (h *ListHandler) Create(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	var req transport.ListCreateRequest
	if !h.decode(ctx, transport.ListCreateSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Create(stdCtx, subject, listUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, list)
}

// @Summary List the caller's lists
// @Tags lists
// @Router /v1/lists [get]
func (h *ListHandler) List(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	page, ok := h.page(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lists, err := h.uc.List(stdCtx, subject, page)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, lists)
}

// @Summary Fetch a list
// @Tags lists
// @Router /v1/lists/{list_id} [get]
func (h *ListHandler) Get(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, "list_id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Get(stdCtx, subject, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, list)
}

// @Summary Patch a list
// @Tags lists
// @Router /v1/lists/{list_id} [patch]
func (h *ListHandler) Update(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, "list_id")
	if !ok {
		return
	}
	var req transport.ListUpdateRequest
	if !h.decode(ctx, transport.ListUpdateSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	list, err := h.uc.Update(stdCtx, subject, id, req.Patch())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, list)
}

// @Summary Soft-delete a list
// @Tags lists
// @Router /v1/lists/{list_id} [delete]
func (h *ListHandler) Delete(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	id, ok := h.pathID(ctx, "list_id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, subject, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
