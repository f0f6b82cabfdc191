package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	apiHandler "github.com/fastygo/tasklists/api/handler"
	"github.com/fastygo/tasklists/internal/infrastructure/monitor"
	"github.com/fastygo/tasklists/internal/middleware"
	"github.com/fastygo/tasklists/internal/ratelimit"
	"github.com/fastygo/tasklists/internal/router"
	"github.com/fastygo/tasklists/internal/token"
	"github.com/fastygo/tasklists/pkg/httpcontext"
	"github.com/fastygo/tasklists/repository/memory"
	authUC "github.com/fastygo/tasklists/usecase/auth"
	listUC "github.com/fastygo/tasklists/usecase/list"
	taskUC "github.com/fastygo/tasklists/usecase/task"
)

type app struct {
	t       *testing.T
	handler fasthttp.RequestHandler
	store   *memory.Store
	monitor *monitor.Monitor
	tokens  *token.Manager
	ip      string
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := memory.New()
	tokens, err := token.NewManager("test-secret", "tasklists", time.Hour)
	require.NoError(t, err)

	mon := monitor.New(store, nil, time.Minute, nil)
	mon.Refresh(context.Background())

	adapter := httpcontext.NewAdapter(time.Second)
	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUC.New(store.Clients(), tokens, nil, authUC.WithHashCost(bcrypt.MinCost)), adapter, nil),
		List:   apiHandler.NewListHandler(listUC.New(store, nil), adapter, nil),
		Task:   apiHandler.NewTaskHandler(taskUC.New(store, nil), adapter, nil),
		Health: apiHandler.NewHealthHandler(mon, adapter, nil),
	}
	r := router.New(handlers, middleware.JWTAuth(tokens, nil))

	return &app{
		t: t,
		handler: middleware.Chain(r.Handler,
			middleware.AccessLog(nil),
			middleware.CORS("*"),
			middleware.RateLimit(ratelimit.NewMemoryLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow), nil),
		),
		store:   store,
		monitor: mon,
		tokens:  tokens,
		ip:      "192.0.2.10",
	}
}

func (a *app) tokenFor(subject string) string {
	a.t.Helper()
	raw, _, err := a.tokens.Issue(subject)
	require.NoError(a.t, err)
	return raw
}

type response struct {
	status int
	header *fasthttp.ResponseHeader
	body   []byte
}

func (r response) decode(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(r.body, &out), "body: %s", r.body)
	return out
}

func (r response) list(t *testing.T) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(r.body, &out), "body: %s", r.body)
	return out
}

func (a *app) do(method, uri, bearer, body string) response {
	a.t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if bearer != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+bearer)
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, &net.TCPAddr{IP: net.ParseIP(a.ip), Port: 40000}, nil)
	a.handler(&ctx)

	header := &fasthttp.ResponseHeader{}
	ctx.Response.Header.CopyTo(header)
	return response{
		status: ctx.Response.StatusCode(),
		header: header,
		body:   append([]byte(nil), ctx.Response.Body()...),
	}
}

func (a *app) createList(bearer, title string) string {
	a.t.Helper()
	res := a.do("POST", "/v1/lists", bearer, fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(a.t, fasthttp.StatusCreated, res.status, "body: %s", res.body)
	return res.decode(a.t)["id"].(string)
}

func (a *app) createTask(bearer, listID, title string) string {
	a.t.Helper()
	res := a.do("POST", "/v1/lists/"+listID+"/tasks", bearer, fmt.Sprintf(`{"title":%q}`, title))
	require.Equal(a.t, fasthttp.StatusCreated, res.status, "body: %s", res.body)
	return res.decode(a.t)["id"].(string)
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	for _, path := range []string{"/", "/v1/"} {
		res := a.do("GET", path, "", "")
		require.Equal(t, fasthttp.StatusOK, res.status, path)
		body := res.decode(t)
		assert.Equal(t, "Hello World", body["message"])
		assert.Equal(t, "System is Online", body["status"])
		assert.NotEmpty(t, res.header.Peek(httpcontext.HeaderRequestID))
	}

	a.store.Fail(assert.AnError)
	a.monitor.Refresh(context.Background())
	res := a.do("GET", "/", "", "")
	assert.Equal(t, fasthttp.StatusServiceUnavailable, res.status)
}

func TestAuthenticationRequired(t *testing.T) {
	a := newApp(t)

	res := a.do("GET", "/v1/lists", "", "")
	assert.Equal(t, fasthttp.StatusUnauthorized, res.status)
	assert.Equal(t, "UNAUTHORIZED", res.decode(t)["code"])

	res = a.do("GET", "/v1/lists", "garbage", "")
	assert.Equal(t, fasthttp.StatusUnauthorized, res.status)
}

func TestListOwnership(t *testing.T) {
	a := newApp(t)
	alice, bob := a.tokenFor("user-a"), a.tokenFor("user-b")

	res := a.do("POST", "/v1/lists", alice, `{"title":"Groceries"}`)
	require.Equal(t, fasthttp.StatusCreated, res.status)
	created := res.decode(t)
	assert.Equal(t, "Active", created["status"])
	assert.Equal(t, "user-a", created["user_id"])
	id := created["id"].(string)

	res = a.do("GET", "/v1/lists/"+id, bob, "")
	assert.Equal(t, fasthttp.StatusForbidden, res.status)
	assert.Equal(t, "FORBIDDEN", res.decode(t)["code"])

	res = a.do("GET", "/v1/lists/"+id, alice, "")
	assert.Equal(t, fasthttp.StatusOK, res.status)
	assert.Equal(t, "Groceries", res.decode(t)["title"])

	res = a.do("GET", "/v1/lists", bob, "")
	require.Equal(t, fasthttp.StatusOK, res.status)
	assert.Empty(t, res.list(t))
	assert.Equal(t, "[]", string(res.body))
}

func TestListValidation(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")

	res := a.do("POST", "/v1/lists", alice, `{}`)
	require.Equal(t, fasthttp.StatusUnprocessableEntity, res.status)
	body := res.decode(t)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	details := body["details"].([]interface{})
	require.NotEmpty(t, details)
	assert.Equal(t, "title", details[0].(map[string]interface{})["field"])

	res = a.do("POST", "/v1/lists", alice, `{"title":`)
	assert.Equal(t, fasthttp.StatusBadRequest, res.status)
	assert.Equal(t, "INVALID", res.decode(t)["code"])

	res = a.do("GET", "/v1/lists/not-a-uuid", alice, "")
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, res.status)

	for _, query := range []string{"limit=0", "limit=101", "page=0", "page=abc"} {
		res = a.do("GET", "/v1/lists?"+query, alice, "")
		assert.Equal(t, fasthttp.StatusUnprocessableEntity, res.status, query)
	}

	res = a.do("PATCH", "/v1/lists/00000000-0000-0000-0000-000000000000", alice, `{"title":"x"}`)
	assert.Equal(t, fasthttp.StatusNotFound, res.status)
}

func TestPageOffsetOverflow(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")
	listID := a.createList(alice, "Groceries")

	for _, uri := range []string{
		"/v1/lists?page=9223372036854775807&limit=2",
		"/v1/lists/" + listID + "/tasks?page=9223372036854775807&limit=2",
		"/v1/lists?page=99999999999999999999",
	} {
		res := a.do("GET", uri, alice, "")
		require.Equal(t, fasthttp.StatusUnprocessableEntity, res.status, uri)
		body := res.decode(t)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		details := body["details"].([]interface{})
		require.Len(t, details, 1)
		assert.Equal(t, "page", details[0].(map[string]interface{})["field"])
	}

	res := a.do("GET", "/v1/lists", alice, "")
	assert.Equal(t, fasthttp.StatusOK, res.status, "server keeps serving")
}

func TestListPagination(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, a.createList(alice, fmt.Sprintf("list %d", i)))
		time.Sleep(time.Millisecond)
	}

	var seen []string
	for page := 1; page <= 3; page++ {
		res := a.do("GET", fmt.Sprintf("/v1/lists?page=%d&limit=2", page), alice, "")
		require.Equal(t, fasthttp.StatusOK, res.status)
		for _, l := range res.list(t) {
			seen = append(seen, l["id"].(string))
		}
	}
	assert.Equal(t, ids, seen)

	res := a.do("GET", "/v1/lists", alice, "")
	assert.Len(t, res.list(t), 5)
}

func TestTaskLifecycle(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")
	listID := a.createList(alice, "Groceries")
	taskURI := func(id string) string { return "/v1/lists/" + listID + "/tasks/" + id }

	res := a.do("POST", "/v1/lists/"+listID+"/tasks", alice, `{"title":"Milk","priority":"High","due_date":"2024-07-01"}`)
	require.Equal(t, fasthttp.StatusCreated, res.status, "body: %s", res.body)
	task := res.decode(t)
	assert.Equal(t, "New", task["status"])
	assert.Equal(t, listID, task["list_id"])
	assert.Equal(t, "2024-07-01", task["due_date"])
	taskID := task["id"].(string)

	res = a.do("PATCH", taskURI(taskID), alice, `{"status":"In-Progress"}`)
	require.Equal(t, fasthttp.StatusOK, res.status)
	assert.Equal(t, "In-Progress", res.decode(t)["status"])

	res = a.do("PATCH", taskURI(taskID), alice, `{"status":"New"}`)
	assert.Equal(t, fasthttp.StatusBadRequest, res.status)
	assert.Equal(t, "INVALID_TRANSITION", res.decode(t)["code"])

	res = a.do("PATCH", "/v1/lists/"+listID, alice, `{"status":"Deferred"}`)
	assert.Equal(t, fasthttp.StatusConflict, res.status)
	res = a.do("GET", "/v1/lists/"+listID, alice, "")
	assert.Equal(t, "Active", res.decode(t)["status"])

	res = a.do("PATCH", taskURI(taskID), alice, `{"status":"Completed"}`)
	require.Equal(t, fasthttp.StatusOK, res.status)

	res = a.do("PATCH", "/v1/lists/"+listID, alice, `{"status":"Deferred"}`)
	require.Equal(t, fasthttp.StatusOK, res.status)
	assert.Equal(t, "Deferred", res.decode(t)["status"])

	res = a.do("POST", "/v1/lists/"+listID+"/tasks", alice, `{"title":"Eggs"}`)
	assert.Equal(t, fasthttp.StatusConflict, res.status)
	res = a.do("PATCH", taskURI(taskID), alice, `{"title":"Oat milk"}`)
	assert.Equal(t, fasthttp.StatusConflict, res.status)

	res = a.do("PATCH", "/v1/lists/"+listID, alice, `{"status":"Deleted"}`)
	assert.Equal(t, fasthttp.StatusBadRequest, res.status)
	assert.Equal(t, "INVALID_TRANSITION", res.decode(t)["code"])

	res = a.do("GET", "/v1/lists/"+listID+"/tasks", alice, "")
	require.Equal(t, fasthttp.StatusOK, res.status)
	assert.Len(t, res.list(t), 1)
}

func TestDeleteListWithActiveTasks(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")
	listID := a.createList(alice, "Groceries")
	taskID := a.createTask(alice, listID, "Milk")

	res := a.do("DELETE", "/v1/lists/"+listID, alice, "")
	assert.Equal(t, fasthttp.StatusConflict, res.status)
	assert.Equal(t, "CONFLICT", res.decode(t)["code"])

	res = a.do("DELETE", "/v1/lists/"+listID+"/tasks/"+taskID, alice, "")
	require.Equal(t, fasthttp.StatusNoContent, res.status)
	assert.Empty(t, res.body)

	res = a.do("GET", "/v1/lists/"+listID+"/tasks/"+taskID, alice, "")
	assert.Equal(t, fasthttp.StatusNotFound, res.status)

	res = a.do("DELETE", "/v1/lists/"+listID, alice, "")
	assert.Equal(t, fasthttp.StatusNoContent, res.status)
	res = a.do("DELETE", "/v1/lists/"+listID, alice, "")
	assert.Equal(t, fasthttp.StatusNoContent, res.status, "deleting twice succeeds")

	res = a.do("GET", "/v1/lists/"+listID, alice, "")
	assert.Equal(t, fasthttp.StatusNotFound, res.status)
	res = a.do("GET", "/v1/lists", alice, "")
	assert.Empty(t, res.list(t))
}

func TestClientCredentials(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")

	res := a.do("POST", "/v1/auth/clients", "", `{"client_id":"cli","client_secret":"s3cret-value","name":"CLI"}`)
	assert.Equal(t, fasthttp.StatusUnauthorized, res.status)

	res = a.do("POST", "/v1/auth/clients", alice, `{"client_id":"cli","client_secret":"s3cret-value","name":"CLI"}`)
	require.Equal(t, fasthttp.StatusCreated, res.status, "body: %s", res.body)
	client := res.decode(t)
	assert.Equal(t, "cli", client["client_id"])
	assert.NotContains(t, client, "secret_hash")

	res = a.do("POST", "/v1/auth/clients", alice, `{"client_id":"cli","client_secret":"s3cret-value","name":"CLI"}`)
	assert.Equal(t, fasthttp.StatusConflict, res.status)

	res = a.do("POST", "/v1/auth/token", "", `{"client_id":"cli","client_secret":"wrong"}`)
	assert.Equal(t, fasthttp.StatusUnauthorized, res.status)

	res = a.do("POST", "/v1/auth/token", "", `{"client_id":"cli","client_secret":"s3cret-value"}`)
	require.Equal(t, fasthttp.StatusOK, res.status)
	tok := res.decode(t)
	assert.Equal(t, "bearer", tok["token_type"])
	assert.EqualValues(t, 3600, tok["expires_in"])

	res = a.do("POST", "/v1/lists", tok["access_token"].(string), `{"title":"Owned by client"}`)
	require.Equal(t, fasthttp.StatusCreated, res.status)
	assert.Equal(t, "cli", res.decode(t)["user_id"])
}

func TestRateLimit(t *testing.T) {
	a := newApp(t)
	for i := 0; i < ratelimit.DefaultLimit; i++ {
		res := a.do("GET", "/", "", "")
		require.Equal(t, fasthttp.StatusOK, res.status, "request %d", i+1)
	}

	res := a.do("GET", "/", "", "")
	require.Equal(t, fasthttp.StatusTooManyRequests, res.status)
	assert.Equal(t, "60", string(res.header.Peek(fasthttp.HeaderRetryAfter)))
	body := res.decode(t)
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.Equal(t, "Rate limit exceeded", body["details"])

	a.ip = "192.0.2.11"
	res = a.do("GET", "/", "", "")
	assert.Equal(t, fasthttp.StatusOK, res.status, "other source addresses are unaffected")
}

func TestStoreUnavailable(t *testing.T) {
	a := newApp(t)
	alice := a.tokenFor("user-a")
	a.store.Fail(assert.AnError)

	res := a.do("POST", "/v1/lists", alice, `{"title":"Groceries"}`)
	require.Equal(t, fasthttp.StatusInternalServerError, res.status)
	body := res.decode(t)
	assert.Equal(t, "STORE_UNAVAILABLE", body["code"])
	assert.NotContains(t, body["message"], assert.AnError.Error())
}

func TestUnknownRouteAndPreflight(t *testing.T) {
	a := newApp(t)

	res := a.do("GET", "/v1/nothing", "", "")
	assert.Equal(t, fasthttp.StatusNotFound, res.status)
	assert.Equal(t, "NOT_FOUND", res.decode(t)["code"])

	var req fasthttp.Request
	req.Header.SetMethod("OPTIONS")
	req.SetRequestURI("/v1/lists")
	req.Header.Set(fasthttp.HeaderOrigin, "https://app.example")
	req.Header.Set(fasthttp.HeaderAccessControlRequestMethod, "POST")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, &net.TCPAddr{IP: net.ParseIP(a.ip)}, nil)
	a.handler(&ctx)

	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "*", string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
	assert.Contains(t, string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowMethods)), "PATCH")
}
