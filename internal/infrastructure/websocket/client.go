package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait 单次写超时
	writeWait = 10 * time.Second
	// pongWait 超过该时间未收到 Pong 则断开
	pongWait = 60 * time.Second
	// pingPeriod 心跳间隔，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 客户端消息上限，服务端只推送不接收业务消息
	maxMessageSize = 4 * 1024
	// sendBufferSize 每个连接的发送缓冲
	sendBufferSize = 256
)

// ServeWS 升级 HTTP 连接并注册到 Hub
// userID 为 0 表示接收所有用户的事件
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写回错误响应
		return err
	}

	conn := &Connection{
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
	if err := h.Register(conn); err != nil {
		_ = ws.Close()
		return err
	}

	h.logger.Info("client connected", "user_id", userID, "remote", r.RemoteAddr)

	go h.writePump(ws, conn)
	go h.readPump(ws, conn)
	return nil
}

// readPump 读取客户端消息，仅用于感知断开与心跳
func (h *Hub) readPump(ws *websocket.Conn, conn *Connection) {
	defer func() {
		h.Unregister(conn)
		_ = ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		// 收到 Pong 说明对方存活，续期读取超时
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("connection read error", "user_id", conn.UserID, "error", err)
			}
			return
		}
	}
}

// writePump 将 Hub 分发的消息写入连接，Send 关闭时结束
func (h *Hub) writePump(ws *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了通道
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn("failed to write message", "user_id", conn.UserID, "error", err)
				return
			}

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
