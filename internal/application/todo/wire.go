package todo

import (
	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// ProviderSet 待办应用服务 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
	// 接口层只依赖仓储接口，由应用服务提供事件发布能力
	wire.Bind(new(TodoStore), new(*Service)),
)

// TodoStore 接口层使用的待办存储（带事件发布）
type TodoStore interface {
	todo.Repository
}
