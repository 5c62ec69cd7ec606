// @title Todo API
// @version 1.0
// @description 待办事项 REST 服务
// @host localhost:19970
// @BasePath /
// @schemes http
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	applog "github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/infrastructure/singleton"
	"github.com/ita-manila/todo-api/internal/wire"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)
	logger := applog.NewModuleLogger("main", "server")

	// 加载配置获取端口
	cfg := config.NewConfig()
	if cfg.Log.Level != "" {
		applog.SetLevel(cfg.Log.Level)
	}
	port := cfg.Server.HTTPPort

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(port)
	if err != nil {
		logger.Error("Single instance check failed", "port", port, "error", err)
		os.Exit(1)
	}
	if listener == nil {
		logger.Info("Another instance is already running, exiting", "port", port)
		os.Exit(0)
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll()
	if err != nil {
		_ = listener.Close()
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// 启动所有服务，HTTP 服务器直接复用单例锁占用的端口
	if err := app.Start(listener); err != nil {
		logger.Error("Failed to start application", "error", err)
		cleanup()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down application...", "signal", sig.String())
	case err := <-app.Errors():
		logger.Error("HTTP server failed, shutting down", "error", err)
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown", "error", err)
	}
	logger.Info("Application stopped")
}
