package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 用户（User）相关接口 --------------------

// GinHandleCreateUser 创建用户
// @Summary 创建用户
// @Description username/email 全局唯一，status 不传默认 offline
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.CreateUserReq true "用户信息"
// @Success 200 {object} response.Response{data=service.UserDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /user/create [post]
func (c *ChatEngine) GinHandleCreateUser(ctx *gin.Context) {
	var req service.CreateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	u, err := c.UserService.CreateUser(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(u))
}

// GinHandleUpdateUser 更新用户资料
// @Summary 更新用户资料
// @Description 只更新给出的字段；status 变化时给同房间的用户发 status_update 通知
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.UpdateUserReq true "更新内容"
// @Success 200 {object} response.Response{data=service.UserDTO} "更新后的用户"
// @Failure 400 {object} response.Response "参数错误"
// @Router /user/update [post]
func (c *ChatEngine) GinHandleUpdateUser(ctx *gin.Context) {
	var req service.UpdateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	u, err := c.UserService.UpdateUser(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(u))
}

// GinHandleGetUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=[]service.UserDTO}
// @Router /user/list [get]
func (c *ChatEngine) GinHandleGetUsers(ctx *gin.Context) {
	users, err := c.UserService.GetUsers()
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(users))
}

// GinHandleGetOnlineUsers 在线用户列表
// @Summary 在线用户列表
// @Description 以数据库 status=online 为准，不依赖 Redis
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=[]service.UserDTO}
// @Router /user/online [get]
func (c *ChatEngine) GinHandleGetOnlineUsers(ctx *gin.Context) {
	users, err := c.UserService.GetOnlineUsers()
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(users))
}
