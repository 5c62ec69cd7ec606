package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// ConfigFileName 配置文件名
const ConfigFileName = "config.yaml"

// GetConfigPath 获取配置文件路径：<数据目录>/config.yaml
func GetConfigPath() string {
	return filepath.Join(GetDataDir(), ConfigFileName)
}

// MergeFile 将 YAML 配置文件合并到当前配置
// 文件不存在不算错误；文件中未出现的字段保持原值
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadFile 只读取配置文件本身（不含默认值和环境变量）
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func logger() *slog.Logger {
	return log.NewModuleLogger("config", "loader")
}
