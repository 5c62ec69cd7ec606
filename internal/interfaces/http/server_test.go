package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptodo "github.com/ita-manila/todo-api/internal/application/todo"
	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/eventbus"
	"github.com/ita-manila/todo-api/internal/infrastructure/storage"
	infraws "github.com/ita-manila/todo-api/internal/infrastructure/websocket"
	"github.com/ita-manila/todo-api/internal/interfaces/http/handler"
	"github.com/ita-manila/todo-api/internal/interfaces/http/middleware"
	"github.com/ita-manila/todo-api/internal/interfaces/http/response"
	"github.com/ita-manila/todo-api/internal/interfaces/mcp"
)

type testEnv struct {
	server *HTTPServer
	hub    *infraws.Hub
}

// newTestEnv 按生产装配方式组装服务器
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := storage.NewMemoryTodoRepository()
	require.NoError(t, err)

	bus := eventbus.NewEventBus()
	t.Cleanup(bus.Close)

	service := apptodo.NewService(repo, bus)

	hub := infraws.NewHub(&config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024})
	hub.Start()
	t.Cleanup(hub.Stop)

	pusher := infraws.NewTodoEventPusher(hub, bus)
	pusher.Start()
	t.Cleanup(pusher.Stop)

	server := NewServer(
		&config.ServerConfig{HTTPPort: "127.0.0.1:0"},
		service,
		handler.NewTodoHandler(service),
		handler.NewRealtimeHandler(hub),
		middleware.NewMetrics(),
		mcp.NewServer(service),
	)

	return &testEnv{server: server, hub: hub}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestServer_TodoRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/todos", `{"id":1,"title":"To Pass ITA","completed":true,"userId":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/todos", `{"title":"open one","userId":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodDelete, "/todos/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())

	w = env.do(http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":2,"title":"open one","completed":false,"userId":2}]`, w.Body.String())

	w = env.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todo_api_store_todos 1")
}

func TestServer_UnknownRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeRouteNotFound, body.Code)

	w = env.do(http.MethodPut, "/todos/1", `{"title":"x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Swagger(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/todos/{id}"`)
}

// TestServer_WebSocketReceivesChanges 通过 /ws 收到 REST 变更事件
func TestServer_WebSocketReceivesChanges(t *testing.T) {
	env := newTestEnv(t)

	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?userId=2"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/todos", "application/json", strings.NewReader(`{"title":"notify me","userId":2}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event events.TodoEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, events.TodoCreated, event.EventType)
	assert.Equal(t, "notify me", event.Todo.Title)
}

func TestServer_WebSocketBadUserID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/ws?userId=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ShutdownBeforeServe(t *testing.T) {
	env := newTestEnv(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	require.NoError(t, env.server.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- env.server.Serve(listener) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("已关闭的服务器不应继续提供服务")
	}

	_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err, "Serve 返回后监听端口应已关闭")
}
