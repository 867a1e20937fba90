package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 通知（Notification）相关接口 --------------------

// GinHandleCreateNotification 手动创建通知
// @Summary 手动创建通知
// @Description 业务扇出之外的直接写入口，type 必须是已知类型
// @Tags 通知
// @Accept json
// @Produce json
// @Param req body service.CreateNotificationReq true "通知内容"
// @Success 200 {object} response.Response{data=service.NotificationDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /notification/create [post]
func (c *ChatEngine) GinHandleCreateNotification(ctx *gin.Context) {
	var req service.CreateNotificationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	n, err := c.NotifyService.CreateNotification(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(n))
}

// GinHandleGetUserNotifications 拉取某用户的通知
// @Summary 拉取某用户的通知
// @Description created_at 倒序分页
// @Tags 通知
// @Produce json
// @Param user_id query uint64 true "用户ID"
// @Param limit query int false "条数(默认20,最大200)"
// @Param offset query int false "偏移量"
// @Success 200 {object} response.Response{data=[]service.NotificationDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /notification/list [get]
func (c *ChatEngine) GinHandleGetUserNotifications(ctx *gin.Context) {
	userID, ok := parseUint64Query(ctx, "user_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid user_id"))
		return
	}
	limit := parseIntQuery(ctx, "limit", 0)
	offset := parseIntQuery(ctx, "offset", 0)

	items, err := c.NotifyService.ListUserNotifications(userID, limit, offset)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(items))
}

type MarkNotificationReadReq struct {
	ID uint64 `json:"id" binding:"required"`
}

// GinHandleMarkNotificationRead 标记通知已读
// @Summary 标记通知已读
// @Description 重复标记是幂等的
// @Tags 通知
// @Accept json
// @Produce json
// @Param req body MarkNotificationReadReq true "请求参数"
// @Success 200 {object} response.Response{data=service.NotificationDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /notification/read [post]
func (c *ChatEngine) GinHandleMarkNotificationRead(ctx *gin.Context) {
	var req MarkNotificationReadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	n, err := c.NotifyService.MarkRead(req.ID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(n))
}
