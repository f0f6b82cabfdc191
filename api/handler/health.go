package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklists/api/transport"
	"github.com/fastygo/tasklists/internal/infrastructure/monitor"
	"github.com/fastygo/tasklists/pkg/httpcontext"
)

// StatusReporter exposes the last known dependency status.
type StatusReporter interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusReporter
}

func NewHealthHandler(mon StatusReporter, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Liveness probe
// @Tags health
// @Router / [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if h.monitor == nil || h.monitor.GetStatus().Healthy() {
		h.respondJSON(ctx, http.StatusOK, transport.Health{Message: "Hello World", Status: "System is Online"})
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.Health{Message: "Hello World", Status: "System is Degraded"})
}
