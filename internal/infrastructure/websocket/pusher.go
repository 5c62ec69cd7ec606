package websocket

import (
	"log/slog"
	"sync"

	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// TodoEventPusher 将待办事件推送给 WebSocket 客户端
type TodoEventPusher struct {
	hub    *Hub
	bus    events.EventBus
	logger *slog.Logger

	mu    sync.Mutex
	unsub func()
}

// NewTodoEventPusher 创建待办事件推送器
func NewTodoEventPusher(hub *Hub, bus events.EventBus) *TodoEventPusher {
	return &TodoEventPusher{
		hub:    hub,
		bus:    bus,
		logger: log.NewModuleLogger("websocket", "pusher"),
	}
}

// Start 订阅待办事件
func (p *TodoEventPusher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unsub != nil {
		return
	}
	p.unsub = p.bus.SubscribeMultiple(events.TodoEventTypes, events.HandlerFunc(p.HandleEvent))
}

// Stop 取消订阅
func (p *TodoEventPusher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
}

// HandleEvent 实现 events.Handler
func (p *TodoEventPusher) HandleEvent(event events.Event) error {
	todoEvent, ok := event.(*events.TodoEvent)
	if !ok {
		return nil
	}
	return p.hub.Broadcast(todoEvent.Todo.UserID, todoEvent)
}
