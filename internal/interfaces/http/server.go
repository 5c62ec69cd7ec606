package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apptodo "github.com/ita-manila/todo-api/internal/application/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/interfaces/http/handler"
	"github.com/ita-manila/todo-api/internal/interfaces/http/middleware"
	"github.com/ita-manila/todo-api/internal/interfaces/http/response"
	"github.com/ita-manila/todo-api/internal/interfaces/mcp"

	_ "github.com/ita-manila/todo-api/docs" // Swagger docs
)

// shutdownTimeout 优雅关闭等待时间
const shutdownTimeout = 5 * time.Second

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	serverCfg *config.ServerConfig,
	store apptodo.TodoStore,
	todoHandler *handler.TodoHandler,
	realtimeHandler *handler.RealtimeHandler,
	metrics *middleware.Metrics,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	if !log.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(nil),
		metrics.Handler(),
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		middleware.EnsureUTF8Body(),
	)

	// 待办路由
	todos := router.Group("/todos")
	{
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.DELETE("/completed", todoHandler.DeleteCompleted)
		todos.GET("/:id", todoHandler.Get)
		todos.PATCH("/:id", todoHandler.Update)
		todos.DELETE("/:id", todoHandler.Delete)
	}

	// 待办变更推送
	router.GET("/ws", realtimeHandler.Subscribe)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus 指标
	if store != nil {
		metrics.RegisterTodoCount(func() float64 {
			items, err := store.FindAll()
			if err != nil {
				return 0
			}
			return float64(len(items))
		})
	}
	router.GET("/metrics", gin.WrapH(metrics.Exporter()))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.CodeRouteNotFound, "路由不存在")
	})
	router.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, response.CodeNotAllowed, "方法不被允许")
	})

	// server 在构造时创建，Shutdown 先于 Serve 调用时 Serve 直接返回
	return &HTTPServer{
		router:   router,
		httpPort: serverCfg.HTTPPort,
		server: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler 返回路由，便于测试直接驱动
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *HTTPServer) Start() error {
	listener, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve 在给定 listener 上提供服务，正常关闭时返回 nil
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.logger.Info("HTTP server starting",
		"addr", listener.Addr().String(),
	)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭，之后的 Serve 调用会立即返回
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
