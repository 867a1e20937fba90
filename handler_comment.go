package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 评论（Comment）相关接口 --------------------

// GinHandleCreateComment 评论上传
// @Summary 评论上传
// @Description 给上传者和该上传的历史评论者发 new_comment 通知（去重，不含自己）
// @Tags 评论
// @Accept json
// @Produce json
// @Param req body service.CreateCommentReq true "评论内容"
// @Success 200 {object} response.Response{data=service.CommentDTO} "评论成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /comment/create [post]
func (c *ChatEngine) GinHandleCreateComment(ctx *gin.Context) {
	var req service.CreateCommentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	comment, err := c.CommentService.CreateComment(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(comment))
}

// GinHandleGetUploadComments 某个上传的评论列表
// @Summary 某个上传的评论列表
// @Description created_at 升序；没有评论返回空列表
// @Tags 评论
// @Produce json
// @Param upload_id query uint64 true "上传ID"
// @Success 200 {object} response.Response{data=[]service.CommentDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /comment/list [get]
func (c *ChatEngine) GinHandleGetUploadComments(ctx *gin.Context) {
	uploadID, ok := parseUint64Query(ctx, "upload_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid upload_id"))
		return
	}

	comments, err := c.CommentService.GetUploadComments(uploadID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(comments))
}
