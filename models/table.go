package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	prefix = "chat_"
)

// 用户在线状态
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusAway    = "away"
)

// ValidStatus 校验状态取值
func ValidStatus(s string) bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAway:
		return true
	}
	return false
}

// User 用户表
type User struct {
	ID        uint64  `gorm:"primarykey"`
	UID       string  `gorm:"size:36;uniqueIndex;not null"`     // 对外用户 ID
	Username  string  `gorm:"size:50;uniqueIndex;not null"`     // 用户名
	Email     string  `gorm:"size:100;uniqueIndex;not null"`    // 邮箱
	AvatarURL *string `gorm:"size:500"`                         // 头像
	Status    string  `gorm:"size:10;not null;default:offline"` // 在线状态: online/offline/away
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联关系
	Rooms    []RoomMember `gorm:"foreignKey:UserID"`
	Messages []Message    `gorm:"foreignKey:SenderID"`
	Uploads  []Upload     `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return prefix + "user"
}

// ChatRoom 聊天房间表
type ChatRoom struct {
	ID          uint64 `gorm:"primarykey"`
	Name        string `gorm:"size:100;not null"` // 房间名称
	Description string `gorm:"size:500"`          // 描述
	IsPrivate   bool   `gorm:"default:false"`     // 是否私有
	CreatedBy   uint64 `gorm:"index;not null"`    // 创建者 ID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// 关联关系
	Creator  User         `gorm:"foreignKey:CreatedBy"`
	Members  []RoomMember `gorm:"foreignKey:RoomID;references:ID"`
	Messages []Message    `gorm:"foreignKey:RoomID;references:ID"`
}

func (ChatRoom) TableName() string {
	return prefix + "room"
}

// 房间成员角色
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// ValidRole 校验角色取值
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleMember:
		return true
	}
	return false
}

// RoomMember 房间成员表
// (room_id, user_id) 唯一：重复添加成员是错误而不是 upsert。
type RoomMember struct {
	ID        uint64    `gorm:"primarykey"`
	RoomID    uint64    `gorm:"index:idx_room_member,unique;not null"` // 房间 ID (对应 ChatRoom.ID)
	UserID    uint64    `gorm:"index:idx_room_member,unique;not null"` // 用户 ID
	Role      string    `gorm:"size:10;not null;default:member"`       // 角色: admin/moderator/member
	JoinedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`             // 加入时间
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联关系
	Room ChatRoom `gorm:"foreignKey:RoomID;references:ID"`
	User User     `gorm:"foreignKey:UserID"`
}

func (RoomMember) TableName() string {
	return prefix + "room_member"
}

// 消息类型
const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeFile   = "file"
	MessageTypeSystem = "system"
)

// ValidMessageType 校验消息类型取值
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// Message 消息表
type Message struct {
	ID        uint64  `gorm:"primarykey"`
	RoomID    uint64  `gorm:"index;not null"`                // 房间 ID (对应 ChatRoom.ID)
	SenderID  uint64  `gorm:"index;not null"`                // 发送者 ID
	Content   string  `gorm:"type:text;not null"`            // 消息内容
	Type      string  `gorm:"size:10;not null;default:text"` // 消息类型: text/image/file/system
	FileURL   *string `gorm:"size:500"`                      // 文件地址（原样透传）
	ReplyToID *uint64 `gorm:"index"`                         // 回复的消息 ID（同房间）
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联关系
	Room    ChatRoom `gorm:"foreignKey:RoomID;references:ID"`
	Sender  User     `gorm:"foreignKey:SenderID"`
	ReplyTo *Message `gorm:"foreignKey:ReplyToID"`
}

func (Message) TableName() string {
	return prefix + "message"
}

// Upload 上传记录表
type Upload struct {
	ID        uint64  `gorm:"primarykey"`
	UserID    uint64  `gorm:"index;not null"`    // 上传者 ID
	RoomID    *uint64 `gorm:"index"`             // 可选：关联房间
	Filename  string  `gorm:"size:255;not null"` // 文件名
	FileURL   string  `gorm:"size:500;not null"` // 文件地址（原样透传）
	FileSize  int64   `gorm:"not null"`          // 文件大小（字节，必须为正）
	FileType  string  `gorm:"size:100;not null"` // 文件类型
	CreatedAt time.Time

	// 关联关系
	User     User      `gorm:"foreignKey:UserID"`
	Room     *ChatRoom `gorm:"foreignKey:RoomID;references:ID"`
	Comments []Comment `gorm:"foreignKey:UploadID"`
}

func (Upload) TableName() string {
	return prefix + "upload"
}

// Comment 上传评论表
type Comment struct {
	ID        uint64 `gorm:"primarykey"`
	UploadID  uint64 `gorm:"index;not null"`     // 上传记录 ID
	UserID    uint64 `gorm:"index;not null"`     // 评论者 ID
	Content   string `gorm:"type:text;not null"` // 评论内容
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联关系
	Upload Upload `gorm:"foreignKey:UploadID"`
	User   User   `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return prefix + "comment"
}

// PushNotification 推送通知表
// 只通过 HTTP 拉取；is_read 单向 false -> true。
type PushNotification struct {
	ID        uint64         `gorm:"primarykey"`
	UserID    uint64         `gorm:"index;not null"`    // 接收者 ID
	Title     string         `gorm:"size:200;not null"` // 标题
	Body      string         `gorm:"size:500;not null"` // 正文
	Type      string         `gorm:"size:20;not null"`  // 类型: new_message/new_upload/new_comment/status_update/room_invite
	Data      datatypes.JSON `gorm:"column:data;type:json"`
	IsRead    bool           `gorm:"default:false"` // 是否已读
	CreatedAt time.Time

	// 关联关系
	User User `gorm:"foreignKey:UserID"`
}

func (PushNotification) TableName() string {
	return prefix + "push_notification"
}
