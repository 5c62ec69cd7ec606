package events

// Handler 事件订阅者
type Handler interface {
	// HandleEvent 返回的 error 只记录日志，不会重试
	HandleEvent(event Event) error
}

// HandlerFunc 让普通函数作为 Handler 使用
type HandlerFunc func(event Event) error

// HandleEvent 实现 Handler 接口
func (f HandlerFunc) HandleEvent(event Event) error {
	return f(event)
}

// EventBus 进程内事件总线
// 待办变更和配置变更都经由它分发给 WebSocket 推送、日志级别热更新等订阅者
type EventBus interface {
	// Subscribe 订阅一种事件，返回的函数用于取消订阅，可重复调用
	Subscribe(eventType EventType, handler Handler) (unsubscribe func())

	// SubscribeMultiple 用同一个 handler 订阅多种事件
	SubscribeMultiple(eventTypes []EventType, handler Handler) (unsubscribe func())

	// Publish 异步分发事件，总线关闭后发布的事件被丢弃
	Publish(event Event)

	// Close 拒绝新事件并等待进行中的 handler 返回
	Close()
}
