// Package watcher 监听配置文件变更并发布事件
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// DefaultDebounceDelay 默认防抖延迟
const DefaultDebounceDelay = 300 * time.Millisecond

// ConfigWatcher 配置文件监听器
// 监听所在目录而非文件本身，编辑器常以“写临时文件再重命名”的方式保存
type ConfigWatcher struct {
	path          string
	debounceDelay time.Duration
	eventBus      events.EventBus
	watcher       *fsnotify.Watcher
	logger        *slog.Logger

	// 防抖相关
	debounceTimer *time.Timer
	debounceMu    sync.Mutex

	// 控制
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConfigWatcher 创建配置文件监听器
func NewConfigWatcher(path string, debounceDelay time.Duration, eventBus events.EventBus) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounceDelay
	}

	return &ConfigWatcher{
		path:          filepath.Clean(path),
		debounceDelay: debounceDelay,
		eventBus:      eventBus,
		watcher:       w,
		logger:        log.NewModuleLogger("watcher", "config_watcher"),
		stopCh:        make(chan struct{}),
	}, nil
}

// ProvideConfigWatcher 监听 <数据目录>/config.yaml
func ProvideConfigWatcher(eventBus events.EventBus) (*ConfigWatcher, error) {
	return NewConfigWatcher(config.GetConfigPath(), DefaultDebounceDelay, eventBus)
}

// Start 启动监听
func (cw *ConfigWatcher) Start() error {
	dir := filepath.Dir(cw.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := cw.watcher.Add(dir); err != nil {
		return err
	}

	cw.logger.Info("Watching config file", "path", cw.path)

	cw.wg.Add(1)
	go cw.watchLoop()
	return nil
}

// Stop 停止监听，可重复调用
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		cw.watcher.Close()
		cw.wg.Wait()

		cw.debounceMu.Lock()
		if cw.debounceTimer != nil {
			cw.debounceTimer.Stop()
		}
		cw.debounceMu.Unlock()

		cw.logger.Info("Config watcher stopped")
	})
}

// watchLoop 事件监听循环
func (cw *ConfigWatcher) watchLoop() {
	defer cw.wg.Done()

	for {
		select {
		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Watcher error", "error", err)
		}
	}
}

// scheduleReload 防抖：连续写入只触发一次解析
func (cw *ConfigWatcher) scheduleReload() {
	cw.debounceMu.Lock()
	defer cw.debounceMu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, cw.reload)
}

// reload 解析配置文件并发布变更事件
func (cw *ConfigWatcher) reload() {
	select {
	case <-cw.stopCh:
		return
	default:
	}

	cfg, err := config.LoadFile(cw.path)
	if err != nil {
		cw.logger.Warn("Failed to reload config file", "path", cw.path, "error", err)
		return
	}

	cw.logger.Info("Config file changed", "path", cw.path, "log_level", cfg.Log.Level)
	cw.eventBus.Publish(&events.ConfigEvent{
		Path:      cw.path,
		LogLevel:  cfg.Log.Level,
		EventTime: time.Now(),
	})
}
