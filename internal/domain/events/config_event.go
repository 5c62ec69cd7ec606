package events

import "time"

// ConfigEvent 配置文件变更事件
// 当 config.yaml 被修改并重新解析成功时触发
type ConfigEvent struct {
	// Path 配置文件路径
	Path string
	// LogLevel 新的日志级别（为空表示未配置）
	LogLevel string
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *ConfigEvent) Type() EventType {
	return ConfigChanged
}

// Timestamp 实现 Event 接口
func (e *ConfigEvent) Timestamp() time.Time {
	return e.EventTime
}
