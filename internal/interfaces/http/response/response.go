package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeRouteNotFound = 100000 // 路由不存在
	CodeInvalidID     = 100001 // 路径中的 id 不是整数
	CodeInvalidBody   = 100002 // 请求体无法解析或缺少必填字段
	CodeInvalidQuery  = 100003 // 查询参数非法
	CodeTodoNotFound  = 100404 // 待办不存在
	CodeNotAllowed    = 100405 // 方法不被允许
	CodeDuplicateID   = 100409 // 待办 id 已存在
	CodeInvalidTodo   = 100422 // 待办字段不合法
	CodeInternal      = 100500 // 存储层内部错误
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// DeletedResponse 批量删除结果
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// JSON 成功响应，直接输出数据本身
func JSON(c *gin.Context, httpCode int, data interface{}) {
	c.JSON(httpCode, data)
}

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created 201 成功响应
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Empty 只返回状态码，响应体为空
func Empty(c *gin.Context, httpCode int) {
	c.Status(httpCode)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
	})
}

// ErrorWithDetail 带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}
