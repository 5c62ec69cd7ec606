package events

import (
	"time"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// TodoEvent 待办变更事件
// 创建、更新、删除成功后由应用层发布
type TodoEvent struct {
	// EventType 事件类型（created/updated/deleted）
	EventType EventType `json:"type"`
	// Todo 变更后的待办；删除事件为删除前的待办
	Todo todo.Todo `json:"todo"`
	// EventTime 事件发生时间
	EventTime time.Time `json:"time"`
}

// NewTodoEvent 创建待办事件
func NewTodoEvent(eventType EventType, item *todo.Todo) *TodoEvent {
	return &TodoEvent{
		EventType: eventType,
		Todo:      *item,
		EventTime: time.Now(),
	}
}

// Type 实现 Event 接口
func (e *TodoEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *TodoEvent) Timestamp() time.Time {
	return e.EventTime
}
