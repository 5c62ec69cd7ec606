package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// 数据目录存放 config.yaml 与 todos.db
const (
	EnvDataDir         = "TODO_DATA_DIR"
	DefaultDataDirName = ".todo-api"
)

var dataDir struct {
	mu   sync.Mutex
	path string
}

// GetDataDir 返回数据目录，首次调用时解析，之后进程内保持不变
func GetDataDir() string {
	dataDir.mu.Lock()
	defer dataDir.mu.Unlock()

	if dataDir.path == "" {
		dataDir.path = resolveDataDir(os.Getenv, os.UserHomeDir)
	}
	return dataDir.path
}

// ResetDataDir 清除已解析的数据目录，测试切换 TODO_DATA_DIR 时使用
func ResetDataDir() {
	dataDir.mu.Lock()
	dataDir.path = ""
	dataDir.mu.Unlock()
}

// resolveDataDir TODO_DATA_DIR 优先，其次 ~/.todo-api，取不到主目录时用相对路径
func resolveDataDir(getenv func(string) string, homeDir func() (string, error)) string {
	if dir := strings.TrimSpace(getenv(EnvDataDir)); dir != "" {
		return filepath.Clean(expandHome(dir, homeDir))
	}

	home, err := homeDir()
	if err != nil || home == "" {
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}

// expandHome 展开 "~" 与 "~/..."，其余路径原样返回
func expandHome(path string, homeDir func() (string, error)) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
