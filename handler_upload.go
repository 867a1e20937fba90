package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 上传（Upload）相关接口 --------------------

// GinHandleCreateUpload 登记上传
// @Summary 登记上传
// @Description file_url 原样保存；带 room_id 时上传者必须是成员，成功后发 new_upload 通知
// @Tags 上传
// @Accept json
// @Produce json
// @Param req body service.CreateUploadReq true "上传信息"
// @Success 200 {object} response.Response{data=service.UploadDTO} "登记成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /upload/create [post]
func (c *ChatEngine) GinHandleCreateUpload(ctx *gin.Context) {
	var req service.CreateUploadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	up, err := c.UploadService.CreateUpload(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(up))
}

// GinHandleGetUploads 上传列表
// @Summary 上传列表
// @Description created_at 倒序，带上传者和评论数；room_id/user_id 可选过滤
// @Tags 上传
// @Produce json
// @Param room_id query uint64 false "按房间过滤"
// @Param user_id query uint64 false "按上传者过滤"
// @Param limit query int false "条数(默认20,最大100)"
// @Param offset query int false "偏移量"
// @Success 200 {object} response.Response{data=[]service.UploadWithDetailsDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /upload/list [get]
func (c *ChatEngine) GinHandleGetUploads(ctx *gin.Context) {
	roomID, ok := parseOptionalUint64Query(ctx, "room_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid room_id"))
		return
	}
	userID, ok := parseOptionalUint64Query(ctx, "user_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid user_id"))
		return
	}
	limit := parseIntQuery(ctx, "limit", 0)
	offset := parseIntQuery(ctx, "offset", 0)

	uploads, err := c.UploadService.ListUploads(roomID, userID, limit, offset)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(uploads))
}
