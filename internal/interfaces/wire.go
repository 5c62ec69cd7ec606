package interfaces

import (
	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/interfaces/http"
	"github.com/ita-manila/todo-api/internal/interfaces/mcp"
)

// ProviderSet Interfaces 层总 ProviderSet
var ProviderSet = wire.NewSet(
	http.ProviderSet,
	mcp.ProviderSet,
)
