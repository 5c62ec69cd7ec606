package wire

import (
	"log/slog"
	"net"
	"sync"

	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/infrastructure/discovery"
	applog "github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/infrastructure/watcher"
	"github.com/ita-manila/todo-api/internal/infrastructure/websocket"
	"github.com/ita-manila/todo-api/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	MCPServer     *interfaces.MCPServer
	wsHub         *websocket.Hub
	pusher        *websocket.TodoEventPusher
	eventBus      events.EventBus
	configWatcher *watcher.ConfigWatcher
	advertiser    *discovery.MDNSAdvertiser
	logger        *slog.Logger

	unsubscribers []func()
	serveErr      chan error
	serveDone     chan struct{} // HTTP 服务 goroutine 退出时关闭
	stopOnce      sync.Once
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	pusher *websocket.TodoEventPusher,
	eventBus events.EventBus,
	configWatcher *watcher.ConfigWatcher,
	advertiser *discovery.MDNSAdvertiser,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		wsHub:         wsHub,
		pusher:        pusher,
		eventBus:      eventBus,
		configWatcher: configWatcher,
		advertiser:    advertiser,
		logger:        applog.NewModuleLogger("app", "main"),
		serveErr:      make(chan error, 1),
	}
}

// Start 启动所有服务
// listener 为单例锁持有的端口，为 nil 时由 HTTP 服务器自行监听
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting todo-api application")

	a.setupEventSubscribers()

	// 启动 WebSocket Hub 与事件推送
	a.wsHub.Start()
	a.pusher.Start()

	// 配置文件监听失败不影响主流程
	if a.configWatcher != nil {
		if err := a.configWatcher.Start(); err != nil {
			a.logger.Error("Failed to start config watcher",
				"error", err,
			)
		}
	}

	// 启动 HTTP 服务器（goroutine）
	a.serveDone = make(chan struct{})
	go func() {
		defer close(a.serveDone)

		var err error
		if listener != nil {
			err = a.HTTPServer.Serve(listener)
		} else {
			err = a.HTTPServer.Start()
		}
		if err != nil {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
			a.serveErr <- err
		}
	}()

	if a.advertiser != nil {
		if err := a.advertiser.Start(); err != nil {
			a.logger.Error("Failed to start mDNS advertiser",
				"error", err,
			)
		}
	}

	a.logger.Info("todo-api application started successfully",
		"addr", a.HTTPServer.Addr(),
	)

	return nil
}

// setupEventSubscribers 注册事件订阅者
func (a *App) setupEventSubscribers() {
	if a.eventBus == nil {
		return
	}

	// 配置文件中的日志级别热更新
	unsub := a.eventBus.Subscribe(
		events.ConfigChanged,
		events.HandlerFunc(func(event events.Event) error {
			configEvent, ok := event.(*events.ConfigEvent)
			if !ok || configEvent.LogLevel == "" {
				return nil
			}
			applog.SetLevel(configEvent.LogLevel)
			a.logger.Info("Log level updated from config file",
				"level", applog.Level().String(),
			)
			return nil
		}),
	)
	a.unsubscribers = append(a.unsubscribers, unsub)
}

// Errors HTTP 服务异常退出时收到错误
func (a *App) Errors() <-chan error {
	return a.serveErr
}

// Stop 停止所有服务，可重复调用
func (a *App) Stop() error {
	var stopErr error

	a.stopOnce.Do(func() {
		a.logger.Info("Stopping todo-api application")

		if a.advertiser != nil {
			if err := a.advertiser.Stop(); err != nil {
				a.logger.Error("Failed to stop mDNS advertiser",
					"error", err,
				)
			}
		}

		if a.configWatcher != nil {
			a.configWatcher.Stop()
		}

		for _, unsub := range a.unsubscribers {
			unsub()
		}
		a.pusher.Stop()

		if err := a.HTTPServer.Stop(); err != nil {
			a.logger.Error("Failed to stop HTTP server",
				"error", err,
			)
			stopErr = err
		}
		// 等待 Serve 返回，确保监听端口已关闭
		if a.serveDone != nil {
			<-a.serveDone
		}

		a.wsHub.Stop()

		if err := a.MCPServer.Stop(); err != nil {
			a.logger.Error("Failed to stop MCP server",
				"error", err,
			)
			stopErr = err
		}

		a.logger.Info("todo-api application stopped")
	})

	return stopErr
}
