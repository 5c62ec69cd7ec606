package infrastructure

import (
	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/discovery"
	"github.com/ita-manila/todo-api/internal/infrastructure/eventbus"
	"github.com/ita-manila/todo-api/internal/infrastructure/storage"
	"github.com/ita-manila/todo-api/internal/infrastructure/watcher"
	"github.com/ita-manila/todo-api/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	eventbus.ProviderSet,
	websocket.ProviderSet,
	watcher.ProviderSet,
	discovery.ProviderSet,
)
