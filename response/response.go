package response

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cydxin/chatapp-backend/apperr"
)

// Response 统一响应结构
type Response struct {
	Code int         `json:"code" example:"0"`                    // 业务状态码
	Msg  string      `json:"msg" example:"success"`               // 提示消息
	Data interface{} `json:"data,omitempty" swaggertype:"object"` // 响应数据
}

// 业务状态码定义
// 使用说明：
// - 绑定失败：HTTP 400 + CodeParamError
// - 业务层：HTTP 200 + 业务状态码
const (
	CodeSuccess        = 0     // 成功
	CodeParamError     = 10001 // 参数错误
	CodeNotFound       = 10002 // 对象不存在
	CodeConflict       = 10003 // 唯一性冲突
	CodePermissionDeny = 10005 // 权限不足（非房间成员等）
	CodePersistence    = 10006 // 存储层拒绝写入
	CodeInternalError  = 99999 // 内部错误
)

// Success 成功响应
func Success(data interface{}, args ...string) *Response {
	msg := "success"
	for _, arg := range args {
		msg = arg
	}
	return &Response{
		Code: CodeSuccess,
		Msg:  msg,
		Data: data,
	}
}

// Error 错误响应
func Error(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// FromError 根据 apperr.Code 映射业务状态码
func FromError(err error) *Response {
	code := CodeInternalError
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument:
		code = CodeParamError
	case apperr.CodeNotFound:
		code = CodeNotFound
	case apperr.CodeAlreadyExists:
		code = CodeConflict
	case apperr.CodePermissionDenied:
		code = CodePermissionDeny
	case apperr.CodePersistence:
		code = CodePersistence
	}
	return Error(code, err.Error())
}

// WriteJSON 写入 JSON 响应（默认 HTTP 200）
func (r *Response) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK) // 业务层统一返回 200
	if err := json.NewEncoder(w).Encode(r); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteJSONWithStatus 写入 JSON 响应（指定 HTTP 状态码）
func (r *Response) WriteJSONWithStatus(w http.ResponseWriter, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(r); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
