// Package discovery 在局域网内通过 mDNS 广播服务
package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_todoapi._tcp"
	// Domain mDNS 域
	Domain = "local."
	// Version 广播的 API 版本
	Version = "1.0"
)

// ServiceInfo 广播的服务信息
type ServiceInfo struct {
	InstanceName string
	Port         int
	TxtRecords   map[string]string
}

// registerFunc 便于测试替换 zeroconf.Register
type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// MDNSAdvertiser mDNS 服务广播器
type MDNSAdvertiser struct {
	mu       sync.RWMutex
	cfg      *config.DiscoveryConfig
	httpPort string
	server   *zeroconf.Server
	info     *ServiceInfo
	running  bool
	register registerFunc
	logger   *slog.Logger
}

// NewMDNSAdvertiser 创建 mDNS 广播器
func NewMDNSAdvertiser(cfg *config.DiscoveryConfig, serverCfg *config.ServerConfig) *MDNSAdvertiser {
	return &MDNSAdvertiser{
		cfg:      cfg,
		httpPort: serverCfg.HTTPPort,
		register: zeroconf.Register,
		logger:   log.NewModuleLogger("discovery", "mdns_advertiser"),
	}
}

// Enabled 是否启用广播
func (a *MDNSAdvertiser) Enabled() bool {
	return a.cfg != nil && a.cfg.Enabled
}

// Start 开始广播服务；未启用时直接返回
func (a *MDNSAdvertiser) Start() error {
	if !a.Enabled() {
		return nil
	}

	port, err := ParsePort(a.httpPort)
	if err != nil {
		return err
	}

	info := BuildServiceInfo(a.cfg.InstanceName, port)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("advertiser is already running")
	}

	// 构建 TXT 记录
	var txtRecords []string
	for k, v := range info.TxtRecords {
		txtRecords = append(txtRecords, fmt.Sprintf("%s=%s", k, v))
	}

	a.logger.Info("starting mDNS advertiser",
		"instance", info.InstanceName,
		"port", info.Port,
		"txt_records", txtRecords,
	)

	server, err := a.register(info.InstanceName, ServiceType, Domain, info.Port, txtRecords, nil)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	a.info = &info
	a.running = true

	return nil
}

// Stop 停止广播
func (a *MDNSAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	a.running = false
	a.info = nil

	a.logger.Info("mDNS advertiser stopped")

	return nil
}

// IsRunning 是否正在广播
func (a *MDNSAdvertiser) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// GetInfo 获取当前广播的服务信息
func (a *MDNSAdvertiser) GetInfo() *ServiceInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.info == nil {
		return nil
	}
	infoCopy := *a.info
	return &infoCopy
}

// BuildServiceInfo 构建服务信息
func BuildServiceInfo(instanceName string, port int) ServiceInfo {
	if instanceName == "" {
		instanceName = "todo-api"
	}
	return ServiceInfo{
		InstanceName: instanceName,
		Port:         port,
		TxtRecords: map[string]string{
			"version": Version,
			"path":    "/todos",
		},
	}
}

// ParsePort 从 ":19970" 或 "host:19970" 中解析端口
func ParsePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("invalid listen port %q", portStr)
	}
	return port, nil
}
