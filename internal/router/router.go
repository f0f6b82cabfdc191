package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasklists/api/handler"
	"github.com/fastygo/tasklists/domain"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	List   *apiHandler.ListHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

type Middleware = func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New registers the /v1 route table. authMiddleware guards every route except
// the health probe and credential exchange.
func New(handlers Handlers, authMiddleware Middleware) *router.Router {
	r := router.New()
	r.NotFound = notFound
	r.MethodNotAllowed = methodNotAllowed

	r.GET("/", handlers.Health.Check)

	v1 := r.Group("/v1")
	v1.GET("/", handlers.Health.Check)

	v1.POST("/auth/token", handlers.Auth.Token)
	v1.POST("/auth/clients", authMiddleware(handlers.Auth.RegisterClient))

	v1.POST("/lists", authMiddleware(handlers.List.Create))
	v1.GET("/lists", authMiddleware(handlers.List.List))
	v1.GET("/lists/{list_id}", authMiddleware(handlers.List.Get))
	v1.PATCH("/lists/{list_id}", authMiddleware(handlers.List.Update))
	v1.DELETE("/lists/{list_id}", authMiddleware(handlers.List.Delete))

	v1.POST("/lists/{list_id}/tasks", authMiddleware(handlers.Task.Create))
	v1.GET("/lists/{list_id}/tasks", authMiddleware(handlers.Task.List))
	v1.GET("/lists/{list_id}/tasks/{task_id}", authMiddleware(handlers.Task.Get))
	v1.PATCH("/lists/{list_id}/tasks/{task_id}", authMiddleware(handlers.Task.Update))
	v1.DELETE("/lists/{list_id}/tasks/{task_id}", authMiddleware(handlers.Task.Delete))

	return r
}

func notFound(ctx *fasthttp.RequestCtx) {
	apiHandler.WriteError(ctx, http.StatusNotFound, string(domain.ErrCodeNotFound),
		domain.NewError(domain.ErrCodeNotFound, "route not found"))
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	apiHandler.WriteError(ctx, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		domain.NewError(domain.ErrCodeInvalid, "method not allowed"))
}
