// Package events 定义领域事件类型和接口
// 用于系统内部的事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 待办相关事件类型
const (
	// TodoCreated 待办创建事件
	TodoCreated EventType = "todo.created"
	// TodoUpdated 待办更新事件
	TodoUpdated EventType = "todo.updated"
	// TodoDeleted 待办删除事件
	TodoDeleted EventType = "todo.deleted"
)

// 配置相关事件类型
const (
	// ConfigChanged 配置文件变更事件
	ConfigChanged EventType = "config.changed"
)

// TodoEventTypes 所有待办事件类型
var TodoEventTypes = []EventType{TodoCreated, TodoUpdated, TodoDeleted}

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
