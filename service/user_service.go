package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
	"github.com/cydxin/chatapp-backend/models"
)

type UserService struct {
	*Service
	userDao *models.UserDAO
}

func NewUserService(s *Service) *UserService {
	log.Println("NewUserService")
	return &UserService{
		Service: s,
		userDao: models.NewUserDAO(s.DB),
	}
}

// --- types ---

type UserDTO struct {
	ID        uint64    `json:"id"`
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateUserReq struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	AvatarURL *string `json:"avatar_url"`
	Status    *string `json:"status"`
}

type UpdateUserReq struct {
	ID        uint64  `json:"id" binding:"required"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	Status    *string `json:"status"`
}

func toUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser 创建用户。username/email 全局唯一，status 缺省 offline。
func (s *UserService) CreateUser(req CreateUserReq) (*UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.InvalidArg("username is required")
	}
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return nil, apperr.InvalidArg("email is required")
	}

	status := models.StatusOffline
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, apperr.InvalidArg("invalid status")
		}
		status = *req.Status
	}

	exists, err := s.userDao.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists("username already exists")
	}
	exists, err = s.userDao.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.AlreadyExists("email already exists")
	}

	now := time.Now()
	user := &models.User{
		UID:       uuid.New().String(),
		Username:  username,
		Email:     email,
		AvatarURL: req.AvatarURL,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userDao.Create(user); err != nil {
		return nil, apperr.Persistence("failed to create user", err)
	}
	return toUserDTO(user), nil
}

// UpdateUser 更新用户信息，只改传入的字段，updated_at 总会刷新。
// 副作用：status 传入且与库中不同时，给每个与该用户同房间的其他用户
// 各写一条 status_update 通知（跨多个共享房间也只有一条）。
func (s *UserService) UpdateUser(ctx context.Context, req UpdateUserReq) (*UserDTO, error) {
	u, err := s.userDao.FindByID(req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, apperr.InvalidArg("username cannot be empty")
		}
		updates["username"] = username
	}
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if email == "" {
			return nil, apperr.InvalidArg("email cannot be empty")
		}
		updates["email"] = email
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	statusChanged := false
	newStatus := u.Status
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, apperr.InvalidArg("invalid status")
		}
		newStatus = *req.Status
		statusChanged = newStatus != u.Status
		updates["status"] = newStatus
	}

	// 状态确实变化时才扇出；收件人 = 与该用户共享至少一个房间的其他用户（去重）
	var recipients []uint64
	if statusChanged {
		recipients, err = s.sharedRoomUsers(u.ID)
		if err != nil {
			return nil, err
		}
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	if statusChanged && len(recipients) > 0 {
		body := fmt.Sprintf("%s is now %s", u.Username, newStatus)
		payload := map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"old_status": u.Status,
			"new_status": newStatus,
		}
		if err := s.Notify.FanOut(tx, u.ID, recipients, cons.NotifyStatusUpdate, "Status update", body, payload); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// 在线集合维护是尽力而为，失败只记日志
	if statusChanged && s.Presence != nil {
		if err := s.Presence.Track(ctx, u.ID, newStatus); err != nil {
			log.Printf("presence track failed for user %d: %v", u.ID, err)
		}
	}

	fresh, err := s.userDao.FindByID(u.ID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(fresh), nil
}

// sharedRoomUsers 与某用户共享至少一个房间的其他用户（去重）
func (s *UserService) sharedRoomUsers(userID uint64) ([]uint64, error) {
	sub := s.DB.Model(&models.RoomMember{}).
		Select("room_id").
		Where("user_id = ?", userID)

	var ids []uint64
	err := s.DB.Model(&models.RoomMember{}).
		Distinct().
		Where("room_id IN (?)", sub).
		Where("user_id <> ?", userID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// GetUsers 全部用户列表
func (s *UserService) GetUsers() ([]UserDTO, error) {
	users, err := s.userDao.FindAll()
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

// GetOnlineUsers 在线用户列表（status = online，数据库为准）
func (s *UserService) GetOnlineUsers() ([]UserDTO, error) {
	users, err := s.userDao.FindByStatus(models.StatusOnline)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func toUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *toUserDTO(&users[i]))
	}
	return out
}
