package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/infrastructure/websocket"
	"github.com/ita-manila/todo-api/internal/interfaces/http/response"
)

// RealtimeHandler 待办变更推送处理器
type RealtimeHandler struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewRealtimeHandler 创建推送处理器
func NewRealtimeHandler(hub *websocket.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		hub:    hub,
		logger: log.NewModuleLogger("http", "realtime_handler"),
	}
}

// Subscribe 建立 WebSocket 连接，接收待办变更事件
// @Summary 订阅待办变更
// @Tags 推送
// @Param userId query int false "只接收该用户的事件"
// @Success 101 {string} string "switching protocols"
// @Failure 400 {object} response.ErrorResponse
// @Router /ws [get]
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	userID := 0
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidQuery, "userId 必须是整数")
			return
		}
		userID = id
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, userID); err != nil {
		// 升级失败时 upgrader 已写入响应
		log.FromContext(c.Request.Context(), h.logger).Warn("WebSocket subscribe failed",
			"user_id", userID,
			"error", err,
		)
	}
}
