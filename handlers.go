package chat_backend

/* @title           Chat Backend API
@version         1.0
@description     Chat backend API documentation
@host            localhost:8080
@BasePath        /api/v1
*/

/* Handlers are split into:
- handler_user.go
- handler_room.go
- handler_message.go
- handler_upload.go
- handler_comment.go
- handler_notification.go
*/

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUint64Query 解析必填的 uint64 query 参数，0 视为非法
func parseUint64Query(ctx *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// parseOptionalUint64Query 解析可选的 uint64 query 参数；没传返回 nil
func parseOptionalUint64Query(ctx *gin.Context, name string) (*uint64, bool) {
	s := ctx.Query(name)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, false
	}
	return &v, true
}

// parseIntQuery 解析带默认值的 int query 参数
func parseIntQuery(ctx *gin.Context, name string, def int) int {
	s := ctx.Query(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
