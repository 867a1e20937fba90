package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
	"github.com/cydxin/chatapp-backend/models"
)

type MemberService struct {
	*Service
	userDao *models.UserDAO
}

func NewMemberService(s *Service) *MemberService {
	log.Println("NewMemberService")
	return &MemberService{Service: s, userDao: models.NewUserDAO(s.DB)}
}

// MemberDTO 房间成员返回结构
type MemberDTO struct {
	ID       uint64    `json:"id"`
	RoomID   uint64    `json:"room_id"`
	UserID   uint64    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func toMemberDTO(m *models.RoomMember) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:       m.ID,
		RoomID:   m.RoomID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

type AddMemberReq struct {
	RoomID uint64 `json:"room_id" binding:"required"`
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddRoomMember 添加成员到房间，role 缺省 member。
// (room_id, user_id) 已存在是冲突而不是 upsert；并发下由唯一索引兜底。
// 成功后给被添加的用户写一条 room_invite 通知。
func (s *MemberService) AddRoomMember(req AddMemberReq) (*MemberDTO, error) {
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return nil, apperr.InvalidArg("invalid role")
	}

	exists, err := s.userDao.ExistsByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user not found")
	}

	var room models.ChatRoom
	if err := s.DB.First(&room, req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("room not found")
		}
		return nil, err
	}

	var count int64
	err = s.DB.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", req.RoomID, req.UserID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.AlreadyExists("user is already a member of this room")
	}

	now := time.Now()
	member := &models.RoomMember{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		Role:      role,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(member).Error; err != nil {
		return nil, err
	}

	body := fmt.Sprintf("You've been added to %s", room.Name)
	payload := map[string]any{
		"room_id":   room.ID,
		"room_name": room.Name,
	}
	if err := s.Notify.FanOut(tx, 0, []uint64{req.UserID}, cons.NotifyRoomInvite, "Room invite", body, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return toMemberDTO(member), nil
}
