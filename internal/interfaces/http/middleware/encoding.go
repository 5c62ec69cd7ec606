package middleware

import (
	"bytes"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 确保 JSON 请求体是 UTF-8 编码的中间件
// Windows 下的 curl 可能以 GBK 编码发送中文标题，此中间件检测并转换
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只处理会写入待办的请求
		if !hasBody(c.Request.Method) || c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			c.Next()
			return
		}

		normalized := normalizeUTF8(bodyBytes)
		c.Request.Body = io.NopCloser(bytes.NewReader(normalized))
		c.Request.ContentLength = int64(len(normalized))

		c.Next()
	}
}

// normalizeUTF8 非 UTF-8 内容按 GBK 解码，解码失败时原样返回
func normalizeUTF8(data []byte) []byte {
	if len(data) == 0 || utf8.Valid(data) {
		return data
	}

	// Windows 中文系统默认使用 GBK (代码页 936)
	converted, err := convertGBKToUTF8(data)
	if err != nil || !utf8.Valid(converted) {
		return data
	}
	return converted
}

// hasBody 判断请求方法是否携带请求体
func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// convertGBKToUTF8 将 GBK 编码的字节转换为 UTF-8
func convertGBKToUTF8(gbkBytes []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(gbkBytes), simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
