package chat_backend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cydxin/chatapp-backend/response"
	"github.com/cydxin/chatapp-backend/service"
)

// -------------------- 房间（Room）相关接口 --------------------

// GinHandleCreateRoom 创建聊天房间
// @Summary 创建聊天房间
// @Description 创建者自动成为 admin 成员，两步在同一事务里
// @Tags 房间
// @Accept json
// @Produce json
// @Param req body service.CreateRoomReq true "房间信息"
// @Success 200 {object} response.Response{data=service.RoomDTO} "创建成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /room/create [post]
func (c *ChatEngine) GinHandleCreateRoom(ctx *gin.Context) {
	var req service.CreateRoomReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	room, err := c.RoomService.CreateRoom(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(room))
}

// GinHandleGetUserRooms 某用户所在的房间列表
// @Summary 某用户所在的房间列表
// @Tags 房间
// @Produce json
// @Param user_id query uint64 true "用户ID"
// @Success 200 {object} response.Response{data=[]service.RoomDTO}
// @Failure 400 {object} response.Response "参数错误"
// @Router /room/list [get]
func (c *ChatEngine) GinHandleGetUserRooms(ctx *gin.Context) {
	userID, ok := parseUint64Query(ctx, "user_id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid user_id"))
		return
	}

	rooms, err := c.RoomService.GetUserRooms(userID)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(rooms))
}

// GinHandleAddRoomMember 拉人进房间
// @Summary 拉人进房间
// @Description 重复加入返回冲突；成功后给被拉的人一条 room_invite 通知
// @Tags 房间
// @Accept json
// @Produce json
// @Param req body service.AddMemberReq true "请求参数"
// @Success 200 {object} response.Response{data=service.MemberDTO} "加入成功"
// @Failure 400 {object} response.Response "参数错误"
// @Router /room/member/add [post]
func (c *ChatEngine) GinHandleAddRoomMember(ctx *gin.Context) {
	var req service.AddMemberReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}

	m, err := c.MemberService.AddRoomMember(req)
	if err != nil {
		ctx.JSON(http.StatusOK, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Success(m))
}
