// Package chat_backend 提供聊天应用后端核心能力
// @title Chat Backend API
// @version 1.0
// @description 聊天应用后端的 RESTful API 文档，包含用户、房间、消息、上传、评论、通知等模块
// @description
// @description ## 业务状态码说明
// @description | Code | 说明 |
// @description |------|------|
// @description | 0 | 成功 |
// @description | 10001 | 参数错误 |
// @description | 10002 | 对象不存在 |
// @description | 10003 | 唯一性冲突 |
// @description | 10005 | 权限不足 |
// @description | 10006 | 存储层拒绝写入 |
// @description | 99999 | 内部错误 |
// @description
// @description ## HTTP 状态码说明
// @description - **200**: 请求已处理（根据 response.code 判断业务状态）
// @description - **400**: 请求体/参数解析失败
//
// @termsOfService https://github.com/cydxin/chatapp-backend
//
// @contact.name API Support
// @contact.url https://github.com/cydxin/chatapp-backend/issues
// @contact.email support@example.com
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
package chat_backend
