package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	taskUC "github.com/fastygo/tasklists/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// ids reads list_id and, when withTask is set, task_id from the path.
func (h *TaskHandler) ids(ctx *fasthttp.RequestCtx, withTask bool) (listID, taskID string, ok bool) {
	if listID, ok = h.pathID(ctx, "list_id"); !ok {
		return "", "", false
	}
	if !withTask {
		return listID, "", true
	}
	if taskID, ok = h.pathID(ctx, "task_id"); !ok {
		return "", "", false
	}
	return listID, taskID, true
}

// @Summary Create a task
// @Tags tasks
// @Router /v1/lists/{list_id}/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	listID, _, ok := h.ids(ctx, false)
	if !ok {
		return
	}
	var req transport.TaskCreateRequest
	if !h.decode(ctx, transport.TaskCreateSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Create(stdCtx, subject, listID, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, task)
}

// @Summary List the tasks of a list
// @Tags tasks
// @Router /v1/lists/{list_id}/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	listID, _, ok := h.ids(ctx, false)
	if !ok {
		return
	}
	page, ok := h.page(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, subject, listID, page)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Fetch a task
// @Tags tasks
// @Router /v1/lists/{list_id}/tasks/{task_id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	listID, taskID, ok := h.ids(ctx, true)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, subject, listID, taskID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Patch a task
// @Tags tasks
// @Router /v1/lists/{list_id}/tasks/{task_id} [patch]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	listID, taskID, ok := h.ids(ctx, true)
	if !ok {
		return
	}
	var req transport.TaskUpdateRequest
	if !h.decode(ctx, transport.TaskUpdateSchema, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Update(stdCtx, subject, listID, taskID, req.Patch())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Soft-delete a task
// @Tags tasks
// @Router /v1/lists/{list_id}/tasks/{task_id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	subject, ok := h.subject(ctx)
	if !ok {
		return
	}
	listID, taskID, ok := h.ids(ctx, true)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, subject, listID, taskID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
