package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ita-manila/todo-api/internal/infrastructure/config"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// ErrHubStopped Hub 已停止
var ErrHubStopped = errors.New("websocket hub stopped")

// Hub WebSocket 连接管理中心
type Hub struct {
	// 按用户分组的连接，UserID 为 0 的连接接收所有消息
	users map[int]map[*Connection]bool
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan *Message
	// done 关闭后 Run 退出
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.RWMutex

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Connection WebSocket 连接
type Connection struct {
	UserID int
	Send   chan []byte
}

// Message 消息
type Message struct {
	UserID int
	Data   []byte
}

// NewHub 创建 Hub
func NewHub(cfg *config.WebSocketConfig) *Hub {
	readSize, writeSize := 1024, 1024
	if cfg != nil {
		if cfg.ReadBufferSize > 0 {
			readSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			writeSize = cfg.WriteBufferSize
		}
	}

	return &Hub{
		users:      make(map[int]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readSize,
			WriteBufferSize: writeSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS 由 HTTP 中间件统一处理
			},
		},
		logger: log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行），Stop 后返回
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.users[conn.UserID] == nil {
				h.users[conn.UserID] = make(map[*Connection]bool)
			}
			h.users[conn.UserID][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.deliver(h.users[0], msg.Data)
			if msg.UserID != 0 {
				h.deliver(h.users[msg.UserID], msg.Data)
			}
			h.mu.Unlock()
		}
	}
}

// deliver 调用方必须持有写锁；发送缓冲区满的连接直接断开
func (h *Hub) deliver(conns map[*Connection]bool, data []byte) {
	for conn := range conns {
		select {
		case conn.Send <- data:
		default:
			h.logger.Warn("send buffer full, dropping connection", "user_id", conn.UserID)
			h.remove(conn)
		}
	}
}

// remove 调用方必须持有写锁
func (h *Hub) remove(conn *Connection) {
	group, ok := h.users[conn.UserID]
	if !ok {
		return
	}
	if _, ok := group[conn]; ok {
		delete(group, conn)
		close(conn.Send)
		if len(group) == 0 {
			delete(h.users, conn.UserID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.users {
		for conn := range group {
			h.remove(conn)
		}
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.Run()
	}()
}

// Stop 停止 Hub 并关闭所有连接的发送通道
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	h.wg.Wait()
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) error {
	select {
	case h.register <- conn:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast 广播消息：发送给订阅全部消息的连接以及 userID 对应的连接
func (h *Hub) Broadcast(userID int, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- &Message{UserID: userID, Data: jsonData}:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// ConnectionCount 当前连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, group := range h.users {
		count += len(group)
	}
	return count
}
