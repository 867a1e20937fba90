package cons

// 统一的推送通知类型（push_notification.type）
const (
	NotifyNewMessage   = "new_message"   // 房间新消息
	NotifyNewUpload    = "new_upload"    // 房间新上传
	NotifyNewComment   = "new_comment"   // 上传新评论
	NotifyStatusUpdate = "status_update" // 用户状态变更
	NotifyRoomInvite   = "room_invite"   // 被拉进房间
)

// ValidNotifyType 校验通知类型取值
func ValidNotifyType(t string) bool {
	switch t {
	case NotifyNewMessage, NotifyNewUpload, NotifyNewComment, NotifyStatusUpdate, NotifyRoomInvite:
		return true
	}
	return false
}
