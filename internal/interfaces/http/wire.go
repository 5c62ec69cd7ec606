package http

import (
	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/interfaces/http/handler"
	"github.com/ita-manila/todo-api/internal/interfaces/http/middleware"
)

// ProviderSet HTTP 接口层 ProviderSet
var ProviderSet = wire.NewSet(
	handler.ProviderSet,
	middleware.NewMetrics,
	NewServer,
)
