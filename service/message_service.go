package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
	"github.com/cydxin/chatapp-backend/models"
)

// SenderDTO 发送人信息（用于消息列表返回）
type SenderDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// MessageDTO 消息数据传输对象（不返回 Room，避免冗余/递归）
type MessageDTO struct {
	ID        uint64     `json:"id"`
	RoomID    uint64     `json:"room_id"`
	SenderID  uint64     `json:"sender_id"`
	Sender    *SenderDTO `json:"sender,omitempty"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	FileURL   *string    `json:"file_url,omitempty"`
	ReplyToID *uint64    `json:"reply_to_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toSenderDTO(u *models.User) *SenderDTO {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &SenderDTO{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

func toMessageDTO(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Sender:    toSenderDTO(&m.Sender),
		Content:   m.Content,
		Type:      m.Type,
		FileURL:   m.FileURL,
		ReplyToID: m.ReplyToID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMessageDTOs(msgs []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for i := range msgs {
		if dto := toMessageDTO(&msgs[i]); dto != nil {
			out = append(out, *dto)
		}
	}
	return out
}

type MessageService struct {
	*Service
	messageDAO *models.MessageDAO
}

func NewMessageService(s *Service) *MessageService {
	log.Println("NewMessageService")
	return &MessageService{Service: s, messageDAO: models.NewMessageDAO(s.DB)}
}

type CreateMessageReq struct {
	RoomID    uint64  `json:"room_id" binding:"required"`
	UserID    uint64  `json:"user_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	Type      string  `json:"message_type"`
	FileURL   *string `json:"file_url"`
	ReplyToID *uint64 `json:"reply_to_id"`
}

type UpdateMessageReq struct {
	ID      uint64  `json:"id" binding:"required"`
	Content *string `json:"content"`
}

// CreateMessage 发送消息。
// - 发送者必须是房间当前成员
// - reply_to_id 指向的消息必须存在且在同一房间，否则按错误处理（不静默丢弃）
// 成功后给房间里除发送者外的每个成员写一条 new_message 通知，
// 正文为按配置截断的消息内容。
func (s *MessageService) CreateMessage(req CreateMessageReq) (*MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.InvalidArg("content is required")
	}
	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !models.ValidMessageType(msgType) {
		return nil, apperr.InvalidArg("invalid message type")
	}

	var count int64
	err := s.DB.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", req.RoomID, req.UserID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.Forbidden("not a member of this room")
	}

	if req.ReplyToID != nil {
		target, err := s.messageDAO.FindByID(*req.ReplyToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("reply target message not found")
			}
			return nil, err
		}
		if target.RoomID != req.RoomID {
			return nil, apperr.NotFound("reply target message not found")
		}
	}

	var members []uint64
	err = s.DB.Model(&models.RoomMember{}).
		Where("room_id = ?", req.RoomID).
		Pluck("user_id", &members).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	msg := &models.Message{
		RoomID:    req.RoomID,
		SenderID:  req.UserID,
		Content:   content,
		Type:      msgType,
		FileURL:   req.FileURL,
		ReplyToID: req.ReplyToID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(msg).Error; err != nil {
		return nil, err
	}

	// 发送者是唯一成员时 FanOut 不产生任何写
	body := truncateBody(content, s.bodyLimit())
	payload := map[string]any{
		"message_id": msg.ID,
		"room_id":    msg.RoomID,
	}
	if err := s.Notify.FanOut(tx, req.UserID, members, cons.NotifyNewMessage, "New message", body, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return toMessageDTO(msg), nil
}

// UpdateMessage 编辑消息。只更新 content（可不传），updated_at 总会刷新；
// 其余字段和 created_at 不可变。
func (s *MessageService) UpdateMessage(req UpdateMessageReq) (*MessageDTO, error) {
	if _, err := s.messageDAO.FindByID(req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, apperr.InvalidArg("content cannot be empty")
		}
		updates["content"] = content
	}

	if err := s.messageDAO.UpdateFields(req.ID, updates); err != nil {
		return nil, err
	}

	fresh, err := s.messageDAO.FindByID(req.ID)
	if err != nil {
		return nil, err
	}
	return toMessageDTO(fresh), nil
}

// GetRoomMessages 获取房间消息列表（分页，带发送人信息，created_at 倒序）。
// 未知房间返回空列表，不是错误。
func (s *MessageService) GetRoomMessages(roomID uint64, limit, offset int) ([]MessageDTO, error) {
	if roomID == 0 {
		return nil, apperr.InvalidArg("room_id is required")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.messageDAO.FindByRoomID(roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMessageDTOs(msgs), nil
}

// truncateBody 通知正文截断：超过 limit 个 rune 取前缀 + "..."，否则原样。
func truncateBody(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultNotifyBodyLimit
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
