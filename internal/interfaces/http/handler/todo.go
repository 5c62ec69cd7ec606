package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apptodo "github.com/ita-manila/todo-api/internal/application/todo"
	"github.com/ita-manila/todo-api/internal/domain/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/log"
	"github.com/ita-manila/todo-api/internal/interfaces/http/response"
)

// TodoHandler 待办事项处理器
type TodoHandler struct {
	store  apptodo.TodoStore
	logger *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(store apptodo.TodoStore) *TodoHandler {
	return &TodoHandler{
		store:  store,
		logger: log.NewModuleLogger("http", "todo_handler"),
	}
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	ID        int    `json:"id"` // 为 0 时由存储分配
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// List 获取待办列表
// @Summary 获取待办列表
// @Tags 待办
// @Produce json
// @Param userId query int false "按用户过滤"
// @Param completed query bool false "按完成状态过滤"
// @Success 200 {array} todo.Todo
// @Failure 400 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidQuery, "查询参数错误", err.Error())
		return
	}

	items, err := h.store.FindAll()
	if err != nil {
		h.internalError(c, "获取待办列表失败", err)
		return
	}

	response.OK(c, filter.Apply(items))
}

// Get 获取单个待办
// @Summary 获取待办详情
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} todo.Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.store.FindByID(id)
	if err != nil {
		h.internalError(c, "查询待办失败", err)
		return
	}
	if item == nil {
		response.Error(c, http.StatusNotFound, response.CodeTodoNotFound, "待办不存在")
		return
	}

	response.OK(c, item)
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body CreateTodoRequest true "待办内容"
// @Success 201 {object} todo.Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidBody, "参数错误", err.Error())
		return
	}

	created, err := h.store.Insert(&todo.Todo{
		ID:        req.ID,
		Title:     req.Title,
		Completed: req.Completed,
		UserID:    req.UserID,
	})
	if err != nil {
		h.storeError(c, "创建待办失败", err)
		return
	}

	response.Created(c, created)
}

// Update 部分更新待办
// @Summary 更新待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param id path int true "待办ID"
// @Param body body todo.Patch true "需要更新的字段"
// @Success 200 {object} todo.Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch todo.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidBody, "参数错误", err.Error())
		return
	}

	updated, err := h.store.Update(id, patch)
	if err != nil {
		h.storeError(c, "更新待办失败", err)
		return
	}

	response.OK(c, updated)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Param id path int true "待办ID"
// @Success 200 {string} string "empty body"
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.store.DeleteByID(id); err != nil {
		h.storeError(c, "删除待办失败", err)
		return
	}

	response.Empty(c, http.StatusOK)
}

// DeleteCompleted 清除所有已完成待办
// @Summary 清除已完成待办
// @Tags 待办
// @Produce json
// @Success 200 {object} response.DeletedResponse
// @Router /todos/completed [delete]
func (h *TodoHandler) DeleteCompleted(c *gin.Context) {
	deleted, err := h.store.DeleteCompleted()
	if err != nil {
		h.internalError(c, "清除已完成待办失败", err)
		return
	}

	response.OK(c, response.DeletedResponse{Deleted: int64(len(deleted))})
}

// storeError 将存储层错误映射为 HTTP 状态码
func (h *TodoHandler) storeError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeTodoNotFound, "待办不存在")
	case errors.Is(err, todo.ErrDuplicateID):
		response.Error(c, http.StatusConflict, response.CodeDuplicateID, "待办ID已存在")
	case errors.Is(err, todo.ErrInvalidTodo):
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidTodo, message, err.Error())
	default:
		h.internalError(c, message, err)
	}
}

func (h *TodoHandler) internalError(c *gin.Context, message string, err error) {
	log.FromContext(c.Request.Context(), h.logger).Error(message, "error", err)
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, message)
}

// parseID 解析路径中的待办 ID，失败时已写入 400 响应
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, response.CodeInvalidID, "待办ID必须是整数", c.Param("id"))
		return 0, false
	}
	return id, true
}

// parseFilter 解析列表查询参数
func parseFilter(c *gin.Context) (todo.Filter, error) {
	var filter todo.Filter

	if raw := c.Query("userId"); raw != "" {
		userID, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("userId must be an integer")
		}
		filter.UserID = &userID
	}

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("completed must be a boolean")
		}
		filter.Completed = &completed
	}

	return filter, nil
}
