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

type CommentService struct {
	*Service
	uploadDao *models.UploadDAO
	userDao   *models.UserDAO
}

func NewCommentService(s *Service) *CommentService {
	log.Println("NewCommentService")
	return &CommentService{
		Service:   s,
		uploadDao: models.NewUploadDAO(s.DB),
		userDao:   models.NewUserDAO(s.DB),
	}
}

// CommentDTO 评论返回结构
type CommentDTO struct {
	ID        uint64    `json:"id"`
	UploadID  uint64    `json:"upload_id"`
	UserID    uint64    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCommentDTO(c *models.Comment) *CommentDTO {
	if c == nil {
		return nil
	}
	return &CommentDTO{
		ID:        c.ID,
		UploadID:  c.UploadID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateCommentReq struct {
	UploadID uint64 `json:"upload_id" binding:"required"`
	UserID   uint64 `json:"user_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// CreateComment 评论上传。成功后：
//   - 评论者不是上传者时，给上传者一条 new_comment 通知
//   - 给该上传的每个历史评论者（去重，排除上传者和当前评论者）各一条
//     new_comment 通知，不管其历史评论数量
func (s *CommentService) CreateComment(req CreateCommentReq) (*CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.InvalidArg("content is required")
	}

	up, err := s.uploadDao.FindByID(req.UploadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("upload not found")
		}
		return nil, err
	}

	exists, err := s.userDao.ExistsByID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user not found")
	}

	priorCommenters, err := s.uploadDao.DistinctCommenters(req.UploadID, []uint64{req.UserID, up.UserID})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		UploadID:  req.UploadID,
		UserID:    req.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 两类收件人正文不同，分别展开后合并成一次批量写
	var rows []models.PushNotification
	if req.UserID != up.UserID {
		ownerRows, err := s.Notify.BuildRows(req.UserID, []uint64{up.UserID}, cons.NotifyNewComment,
			"New comment",
			fmt.Sprintf("Someone commented on your upload: %s", up.Filename),
			map[string]any{"upload_id": up.ID, "comment_user_id": req.UserID},
		)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ownerRows...)
	}
	if len(priorCommenters) > 0 {
		priorRows, err := s.Notify.BuildRows(req.UserID, priorCommenters, cons.NotifyNewComment,
			"New comment",
			fmt.Sprintf("Someone else commented on an upload you commented on: %s", up.Filename),
			map[string]any{"upload_id": up.ID, "comment_user_id": req.UserID},
		)
		if err != nil {
			return nil, err
		}
		rows = append(rows, priorRows...)
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	if err := tx.Create(comment).Error; err != nil {
		return nil, err
	}
	if err := s.Notify.InsertRows(tx, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return toCommentDTO(comment), nil
}

// GetUploadComments 获取某个上传的全部评论（created_at 升序）。
// 未知上传或没有评论返回空列表，不是错误。
func (s *CommentService) GetUploadComments(uploadID uint64) ([]CommentDTO, error) {
	if uploadID == 0 {
		return nil, apperr.InvalidArg("upload_id is required")
	}

	comments, err := s.uploadDao.FindCommentsByUploadID(uploadID)
	if err != nil {
		return nil, err
	}

	out := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, *toCommentDTO(&comments[i]))
	}
	return out, nil
}
