package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apptodo "github.com/ita-manila/todo-api/internal/application/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

const (
	// ServerName MCP 服务名
	ServerName = "todo-api"
	// ServerVersion MCP 服务版本
	ServerVersion = "1.0.0"
)

// MCPServer MCP 服务器，把待办存储以工具形式暴露给 AI 客户端
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	store   apptodo.TodoStore
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(store apptodo.TodoStore) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server: server,
		store:  store,
		logger: log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List todos in insertion order. Parameters: userId (int, optional) - only todos of this user; completed (bool, optional) - only todos with this completion state. Returns: todos and count.",
	}, mcpServer.listTodosTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_todo",
		Description: "Get a single todo by id. Parameters: id (int, required). Returns the todo or an error when it does not exist.",
	}, mcpServer.getTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "create_todo",
		Description: `Create a todo.
Parameters:
- title (string, required): Todo title
- id (int, optional): Explicit id, assigned automatically when omitted; an existing id is rejected
- completed (bool, optional): Defaults to false
- userId (int, optional): Owner user id
Returns: the stored todo.`,
	}, mcpServer.createTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_todo",
		Description: "Partially update a todo. Parameters: id (int, required); title (string, optional); completed (bool, optional); userId (int, optional). Only provided fields change. Returns the updated todo.",
	}, mcpServer.updateTodoTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo by id. Parameters: id (int, required). Returns an error when it does not exist.",
	}, mcpServer.deleteTodoTool)

	mcpServer.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 返回底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// Stop 停止服务器
// SSE 模式下会话随 HTTP 服务器关闭而结束
func (s *MCPServer) Stop() error {
	s.logger.Debug("MCP server stopped")
	return nil
}
