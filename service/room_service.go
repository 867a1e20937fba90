package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/models"
)

type RoomService struct {
	*Service
	userDao *models.UserDAO
}

func NewRoomService(s *Service) *RoomService {
	log.Println("NewRoomService")
	return &RoomService{Service: s, userDao: models.NewUserDAO(s.DB)}
}

// RoomDTO 房间返回结构
type RoomDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoomDTO(r *models.ChatRoom) *RoomDTO {
	if r == nil {
		return nil
	}
	return &RoomDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type CreateRoomReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	CreatedBy   uint64 `json:"created_by" binding:"required"`
}

// CreateRoom 创建房间。
// 不变式：房间行和创建者的 admin 成员行同一个事务写入，要么都有要么都没有。
func (s *RoomService) CreateRoom(req CreateRoomReq) (*RoomDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.InvalidArg("name is required")
	}
	if req.CreatedBy == 0 {
		return nil, apperr.InvalidArg("created_by is required")
	}

	exists, err := s.userDao.ExistsByID(req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user not found")
	}

	now := time.Now()
	room := &models.ChatRoom{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsPrivate:   req.IsPrivate,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(room).Error; err != nil {
		return nil, err
	}

	member := &models.RoomMember{
		RoomID:    room.ID,
		UserID:    req.CreatedBy,
		Role:      models.RoleAdmin,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(member).Error; err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return toRoomDTO(room), nil
}

// GetRoom 根据ID查询房间
func (s *RoomService) GetRoom(roomID uint64) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("room not found")
		}
		return nil, err
	}
	return &room, nil
}

// GetUserRooms 获取用户参与的所有房间。
// 未知用户或没有成员关系的用户返回空列表，不是错误。
func (s *RoomService) GetUserRooms(userID uint64) ([]RoomDTO, error) {
	if userID == 0 {
		return nil, apperr.InvalidArg("user_id is required")
	}

	roomTable := models.ChatRoom{}.TableName()
	memberTable := models.RoomMember{}.TableName()

	var rooms []models.ChatRoom
	err := s.DB.Model(&models.ChatRoom{}).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.room_id", memberTable, roomTable, memberTable)).
		Where(fmt.Sprintf("%s.user_id = ?", memberTable), userID).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	dtos := make([]RoomDTO, 0, len(rooms))
	for i := range rooms {
		dtos = append(dtos, *toRoomDTO(&rooms[i]))
	}
	return dtos, nil
}

// GetRoomMembers 获取房间成员的用户ID列表
func (s *RoomService) GetRoomMembers(roomID uint64) ([]uint64, error) {
	var members []uint64
	err := s.DB.Model(&models.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &members).Error
	return members, err
}

// CheckRoomMember 检查用户是否是房间成员
func (s *RoomService) CheckRoomMember(roomID, userID uint64) (bool, error) {
	var count int64
	err := s.DB.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}
