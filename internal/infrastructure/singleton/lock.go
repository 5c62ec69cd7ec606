// Package singleton 通过端口占用保证同一时间只运行一个 todo-api 实例
package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

const (
	// DefaultPort 默认监听端口
	DefaultPort = ":19970"
	// HealthPath 健康检查路径
	HealthPath = "/health"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// ErrPortBusy 端口被其他进程占用且健康检查失败
var ErrPortBusy = errors.New("port is in use by an unhealthy process")

// CheckAndLock 尝试占用端口
// 端口可用时返回 listener；已有健康实例在运行时返回 nil, nil（调用者应退出）；
// 端口被占用但健康检查失败时返回 ErrPortBusy
func CheckAndLock(addr string) (net.Listener, error) {
	logger := log.NewModuleLogger("singleton", "lock")

	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		logger.Info("another instance is already running", "addr", addr)
		return nil, nil
	}

	return nil, fmt.Errorf("%s: %w", addr, ErrPortBusy)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}

	// Linux/Unix: EADDRINUSE
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}

	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 10048 {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// healthURL 由监听地址构造健康检查 URL，空主机或通配地址回退到 localhost
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost" + addr + HealthPath
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + HealthPath
}

// isInstanceRunning 检查是否有实例在运行
func isInstanceRunning(addr string) bool {
	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}

	resp, err := client.Get(healthURL(addr))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
