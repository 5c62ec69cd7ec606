package wire

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptodo "github.com/ita-manila/todo-api/internal/application/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/discovery"
	"github.com/ita-manila/todo-api/internal/infrastructure/eventbus"
	applog "github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/infrastructure/storage"
	"github.com/ita-manila/todo-api/internal/infrastructure/watcher"
	"github.com/ita-manila/todo-api/internal/infrastructure/websocket"
	httpapi "github.com/ita-manila/todo-api/internal/interfaces/http"
	"github.com/ita-manila/todo-api/internal/interfaces/http/handler"
	"github.com/ita-manila/todo-api/internal/interfaces/http/middleware"
	"github.com/ita-manila/todo-api/internal/interfaces/mcp"
)

// newTestApp 手动装配应用，与 InitializeAll 的装配顺序一致
func newTestApp(t *testing.T, configPath string, addr string) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := storage.NewMemoryTodoRepository()
	require.NoError(t, err)

	bus := eventbus.NewEventBus()
	t.Cleanup(bus.Close)

	service := apptodo.NewService(repo, bus)
	hub := websocket.NewHub(nil)
	mcpServer := mcp.NewServer(service)
	serverCfg := &config.ServerConfig{HTTPPort: addr}

	httpServer := httpapi.NewServer(
		serverCfg,
		service,
		handler.NewTodoHandler(service),
		handler.NewRealtimeHandler(hub),
		middleware.NewMetrics(),
		mcpServer,
	)

	configWatcher, err := watcher.NewConfigWatcher(configPath, 20*time.Millisecond, bus)
	require.NoError(t, err)

	return NewApp(
		httpServer,
		mcpServer,
		hub,
		websocket.NewTodoEventPusher(hub, bus),
		bus,
		configWatcher,
		discovery.NewMDNSAdvertiser(&config.DiscoveryConfig{Enabled: false}, serverCfg),
	)
}

func TestApp_StartServeStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	app := newTestApp(t, filepath.Join(t.TempDir(), "config.yaml"), addr)
	require.NoError(t, app.Start(listener))

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Stop())
	assert.NoError(t, app.Stop(), "重复 Stop 不应报错")

	select {
	case err := <-app.Errors():
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}

	_, err = http.Get(fmt.Sprintf("http://%s/health", addr))
	assert.Error(t, err, "关闭后不应再接受请求")
}

func TestApp_StopRightAfterStart(t *testing.T) {
	for i := 0; i < 20; i++ {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := listener.Addr().String()

		app := newTestApp(t, filepath.Join(t.TempDir(), "config.yaml"), addr)
		require.NoError(t, app.Start(listener))
		require.NoError(t, app.Stop())

		client := &http.Client{Timeout: 500 * time.Millisecond}
		resp, err := client.Get(fmt.Sprintf("http://%s/health", addr))
		if err == nil {
			resp.Body.Close()
			t.Fatalf("run %d: server still serving after Stop: status %d", i, resp.StatusCode)
		}

		select {
		case err := <-app.Errors():
			t.Fatalf("run %d: unexpected serve error: %v", i, err)
		default:
		}
	}
}

func TestApp_ConfigReloadUpdatesLogLevel(t *testing.T) {
	applog.Init(&applog.Config{Level: "info", Format: "console"})
	defer applog.Init(&applog.Config{Level: "info", Format: "console"})

	configPath := filepath.Join(t.TempDir(), "config.yaml")

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app := newTestApp(t, configPath, listener.Addr().String())
	require.NoError(t, app.Start(listener))
	defer app.Stop()

	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: debug\n"), 0644))

	assert.Eventually(t, func() bool {
		return applog.Level() == slog.LevelDebug
	}, 3*time.Second, 20*time.Millisecond)
}
