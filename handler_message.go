package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 消息（Message）相关接口 --------------------

// GinHandleCreateMessage 发送消息
// @Summary 发送消息
// @Description 发送者必须是房间成员；成功后给房间其他成员发 new_message 通知（正文截断）
// @Tags 消息
// @Accept json
// @Produce json
// @Param req body service.CreateMessageReq true "消息内容"
// @Success 200 {object} response.Response{data=service.MessageDTO} "发送成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /message/create [post]
func (c *ChatEngine) GinHandleCreateMessage(ctx *gin.Context) {
	var req service.CreateMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	msg, err := c.MessageService.CreateMessage(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(msg))
}

// GinHandleUpdateMessage 编辑消息
// @Summary 编辑消息
// @Description 只更新给出的字段，不触发任何通知
// @Tags 消息
// @Accept json
// @Produce json
// @Param req body service.UpdateMessageReq true "更新内容"
// @Success 200 {object} response.Response{data=service.MessageDTO} "更新后的消息"
// @Failure 400 {object} response.Response "参数错误"
// @Router /message/update [post]
func (c *ChatEngine) GinHandleUpdateMessage(ctx *gin.Context) {
	var req service.UpdateMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	msg, err := c.MessageService.UpdateMessage(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(msg))
}

// GinHandleGetRoomMessages 房间消息列表
// @Summary 房间消息列表
// @Description created_at 倒序，带发送者信息
// @Tags 消息
// @Produce json
// @Param room_id query uint64 true "房间ID"
// @Param limit query int false "条数(默认50,最大200)"
// @Param offset query int false "偏移量"
// @Success 200 {object} response.Response{data=[]service.MessageDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /message/list [get]
func (c *ChatEngine) GinHandleGetRoomMessages(ctx *gin.Context) {
	roomID, ok := parseUint64Query(ctx, "room_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid room_id"))
		return
	}
	limit := parseIntQuery(ctx, "limit", 0)
	offset := parseIntQuery(ctx, "offset", 0)

	msgs, err := c.MessageService.GetRoomMessages(roomID, limit, offset)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(msgs))
}
