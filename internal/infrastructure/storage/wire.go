package storage

import (
	"fmt"

	"github.com/google/wire"

	"github.com/ita-manila/todo-api/internal/domain/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideTodoRepository, // 按配置选择待办仓储
)

// ProvideTodoRepository 根据配置创建待办仓储
// 返回的 cleanup 负责关闭数据库连接
func ProvideTodoRepository(cfg *config.DatabaseConfig) (todo.Repository, func(), error) {
	logger := log.NewModuleLogger("storage", "provider")

	switch cfg.Driver {
	case "", config.StoreMemory:
		repo, err := NewMemoryTodoRepository()
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using in-memory todo store")
		return repo, func() {}, nil

	case config.StoreSQLite:
		dbPath := GetDBPath(cfg)
		db, err := OpenDB(dbPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewSQLiteTodoRepository(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Using SQLite todo store", "path", dbPath)
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", "error", err)
			}
		}
		return repo, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
