package todo

import (
	"log/slog"

	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/domain/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// Service 待办应用服务
// 包装仓储，在变更成功后发布领域事件；本身也实现 todo.Repository
type Service struct {
	repo   todo.Repository
	bus    events.EventBus
	logger *slog.Logger
}

// NewService 创建待办应用服务，bus 可为 nil（不发布事件）
func NewService(repo todo.Repository, bus events.EventBus) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: log.NewModuleLogger("todo", "service"),
	}
}

// FindAll 获取全部待办
func (s *Service) FindAll() ([]*todo.Todo, error) {
	return s.repo.FindAll()
}

// FindByID 根据 ID 获取待办
func (s *Service) FindByID(id int) (*todo.Todo, error) {
	return s.repo.FindByID(id)
}

// Insert 创建待办并发布 TodoCreated
func (s *Service) Insert(item *todo.Todo) (*todo.Todo, error) {
	created, err := s.repo.Insert(item)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Todo created", "id", created.ID, "user_id", created.UserID)
	s.publish(events.TodoCreated, created)
	return created, nil
}

// Update 部分更新待办并发布 TodoUpdated
func (s *Service) Update(id int, patch todo.Patch) (*todo.Todo, error) {
	updated, err := s.repo.Update(id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Todo updated", "id", id)
	s.publish(events.TodoUpdated, updated)
	return updated, nil
}

// DeleteByID 删除待办并发布 TodoDeleted，事件携带删除前的内容
func (s *Service) DeleteByID(id int) (*todo.Todo, error) {
	deleted, err := s.repo.DeleteByID(id)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Todo deleted", "id", id)
	s.publish(events.TodoDeleted, deleted)
	return deleted, nil
}

// DeleteCompleted 清除已完成待办，按仓储实际删除的记录逐条发布 TodoDeleted
func (s *Service) DeleteCompleted() ([]*todo.Todo, error) {
	deleted, err := s.repo.DeleteCompleted()
	if err != nil {
		return nil, err
	}

	for _, item := range deleted {
		s.publish(events.TodoDeleted, item)
	}
	s.logger.Info("Completed todos cleared", "deleted", len(deleted))
	return deleted, nil
}

func (s *Service) publish(eventType events.EventType, item *todo.Todo) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.NewTodoEvent(eventType, item))
}

// 编译时检查接口实现
var _ todo.Repository = (*Service)(nil)
