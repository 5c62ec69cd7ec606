//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/application"
	"github.com/ita-manila/todo-api/internal/infrastructure"
	"github.com/ita-manila/todo-api/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP + WebSocket）
// 返回的 cleanup 负责关闭事件总线和数据库连接
func InitializeAll() (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		NewApp,                     // 组合所有服务的应用结构
	)
	return nil, nil, nil
}
