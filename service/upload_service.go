package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
	"github.com/cydxin/chatapp-backend/models"
)

type UploadService struct {
	*Service
	uploadDao *models.UploadDAO
	userDao   *models.UserDAO
}

func NewUploadService(s *Service) *UploadService {
	log.Println("NewUploadService")
	return &UploadService{
		Service:   s,
		uploadDao: models.NewUploadDAO(s.DB),
		userDao:   models.NewUserDAO(s.DB),
	}
}

// UploadDTO 上传记录返回结构
type UploadDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	RoomID    *uint64   `json:"room_id,omitempty"`
	Filename  string    `json:"filename"`
	FileURL   string    `json:"file_url"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

// UploaderDTO 上传者身份信息
type UploaderDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// UploadWithDetailsDTO 列表项：上传记录 + 上传者 + 评论数
type UploadWithDetailsDTO struct {
	UploadDTO
	Uploader     UploaderDTO `json:"uploader"`
	CommentCount int64       `json:"comment_count"`
}

func toUploadDTO(up *models.Upload) *UploadDTO {
	if up == nil {
		return nil
	}
	return &UploadDTO{
		ID:        up.ID,
		UserID:    up.UserID,
		RoomID:    up.RoomID,
		Filename:  up.Filename,
		FileURL:   up.FileURL,
		FileSize:  up.FileSize,
		FileType:  up.FileType,
		CreatedAt: up.CreatedAt,
	}
}

type CreateUploadReq struct {
	UserID   uint64  `json:"user_id" binding:"required"`
	Filename string  `json:"filename" binding:"required"`
	FileURL  string  `json:"file_url" binding:"required"`
	FileSize int64   `json:"file_size" binding:"required"`
	FileType string  `json:"file_type" binding:"required"`
	RoomID   *uint64 `json:"room_id"`
}

// CreateUpload 登记上传。file_url 原样透传，存储机制不在这层。
// room_id 给出时上传者必须是该房间成员，成功后给其他成员写 new_upload 通知；
// 不给 room_id 就没有任何通知。
func (s *UploadService) CreateUpload(req CreateUploadReq) (*UploadDTO, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return nil, apperr.InvalidArg("filename is required")
	}
	if strings.TrimSpace(req.FileURL) == "" {
		return nil, apperr.InvalidArg("file_url is required")
	}
	if req.FileSize <= 0 {
		return nil, apperr.InvalidArg("file_size must be positive")
	}
	if strings.TrimSpace(req.FileType) == "" {
		return nil, apperr.InvalidArg("file_type is required")
	}

	user, err := s.userDao.FindByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	up := &models.Upload{
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		Filename:  filename,
		FileURL:   strings.TrimSpace(req.FileURL),
		FileSize:  req.FileSize,
		FileType:  strings.TrimSpace(req.FileType),
		CreatedAt: time.Now(),
	}

	// 没有关联房间：单条插入即可，没有扇出
	if req.RoomID == nil {
		if err := s.uploadDao.Create(up); err != nil {
			return nil, apperr.Persistence("failed to create upload", err)
		}
		return toUploadDTO(up), nil
	}

	var roomCount int64
	if err := s.DB.Model(&models.ChatRoom{}).Where("id = ?", *req.RoomID).Count(&roomCount).Error; err != nil {
		return nil, err
	}
	if roomCount == 0 {
		return nil, apperr.NotFound("room not found")
	}

	var memberCount int64
	err = s.DB.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", *req.RoomID, req.UserID).
		Count(&memberCount).Error
	if err != nil {
		return nil, err
	}
	if memberCount == 0 {
		return nil, apperr.Forbidden("not a member of this room")
	}

	var members []uint64
	err = s.DB.Model(&models.RoomMember{}).
		Where("room_id = ?", *req.RoomID).
		Pluck("user_id", &members).Error
	if err != nil {
		return nil, err
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(up).Error; err != nil {
		return nil, err
	}

	body := fmt.Sprintf("%s uploaded %s", user.Username, filename)
	payload := map[string]any{
		"upload_id": up.ID,
		"room_id":   *req.RoomID,
		"filename":  filename,
	}
	if err := s.Notify.FanOut(tx, req.UserID, members, cons.NotifyNewUpload, "New upload", body, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return toUploadDTO(up), nil
}

// ListUploads 分页列出上传记录，可按 room_id/user_id 过滤（同时给出取交集），
// 带上传者身份和每条的评论数。
func (s *UploadService) ListUploads(roomID, userID *uint64, limit, offset int) ([]UploadWithDetailsDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	uploads, err := s.uploadDao.List(roomID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return []UploadWithDetailsDTO{}, nil
	}

	ids := make([]uint64, len(uploads))
	for i := range uploads {
		ids[i] = uploads[i].ID
	}
	counts, err := s.uploadDao.CountCommentsByUploadIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]UploadWithDetailsDTO, 0, len(uploads))
	for i := range uploads {
		up := &uploads[i]
		out = append(out, UploadWithDetailsDTO{
			UploadDTO: *toUploadDTO(up),
			Uploader: UploaderDTO{
				ID:        up.User.ID,
				Username:  up.User.Username,
				Email:     up.User.Email,
				AvatarURL: up.User.AvatarURL,
			},
			CommentCount: counts[up.ID],
		})
	}
	return out, nil
}
