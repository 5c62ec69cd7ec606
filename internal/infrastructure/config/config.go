package config

import (
	"os"
	"strconv"
)

// 环境变量名
const (
	EnvHTTPPort = "TODO_HTTP_PORT"
	EnvStore    = "TODO_STORE"
	EnvDBPath   = "TODO_DB_PATH"
	EnvMDNS     = "TODO_MDNS"
)

// 存储驱动
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Driver 存储驱动：memory（默认）或 sqlite
	Driver string `yaml:"driver"`
	// Path SQLite 文件路径，留空表示 <数据目录>/todos.db
	Path string `yaml:"path"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// DiscoveryConfig 局域网服务发现配置
type DiscoveryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	InstanceName string `yaml:"instance_name"`
}

// LogConfig 日志配置（文件中可热更新的部分）
type LogConfig struct {
	Level string `yaml:"level"`
}

// NewConfig 创建配置
// 优先级：环境变量 > 配置文件 > 默认值
func NewConfig() *Config {
	cfg := DefaultConfig()

	if err := cfg.MergeFile(GetConfigPath()); err != nil {
		// 配置文件损坏时使用默认值继续启动
		logger().Warn("Failed to load config file, using defaults",
			"path", GetConfigPath(),
			"error", err,
		)
	}

	cfg.applyEnv()
	return cfg
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":19970",
		},
		Database: DatabaseConfig{
			Driver: StoreMemory,
			Path:   "",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Discovery: DiscoveryConfig{
			Enabled:      false,
			InstanceName: "todo-api",
		},
	}
}

// applyEnv 使用环境变量覆盖配置
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = port
	}
	if driver := os.Getenv(EnvStore); driver != "" {
		c.Database.Driver = driver
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.Database.Path = path
	}
	if v := os.Getenv(EnvMDNS); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Discovery.Enabled = enabled
		}
	}
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewDiscoveryConfig 创建服务发现配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}
