package log

import (
	"os"
	"strconv"
	"strings"
)

// 支持的日志格式
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `json:"level" env:"LOG_LEVEL"`

	// Format 日志格式：console（text 为别名）, json
	Format string `json:"format" env:"LOG_FORMAT"`

	// Output 输出目标：stdout, stderr, file:/path/to/log
	Output string `json:"output" env:"LOG_OUTPUT"`

	// AddSource 是否添加源文件信息
	AddSource bool `json:"add_source" env:"LOG_ADD_SOURCE"`
}

// NewConfigFromEnv 从环境变量创建配置
// ENV=development 时强制 debug 级别、控制台格式并输出源码位置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     getEnvWithDefault("LOG_LEVEL", "info"),
		Format:    getEnvWithDefault("LOG_FORMAT", FormatConsole),
		Output:    getEnvWithDefault("LOG_OUTPUT", "stdout"),
		AddSource: getEnvBool("LOG_ADD_SOURCE", false),
	}

	if isDevelopment() {
		cfg.Level = "debug"
		cfg.Format = FormatConsole
		cfg.AddSource = true
	}

	return cfg
}

// normalizedFormat 未知格式回退到控制台格式
func (c *Config) normalizedFormat() string {
	if strings.EqualFold(c.Format, FormatJSON) {
		return FormatJSON
	}
	return FormatConsole
}

func isDevelopment() bool {
	return strings.EqualFold(getEnvWithDefault("ENV", "production"), "development")
}

// getEnvWithDefault 获取环境变量，带默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔型环境变量，无法解析时使用默认值
func getEnvBool(key string, defaultValue bool) bool {
	boolValue, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return boolValue
}
