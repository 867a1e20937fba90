package service

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/cydxin/chatapp-backend/apperr"
	"github.com/cydxin/chatapp-backend/cons"
	"github.com/cydxin/chatapp-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService 统一处理推送通知：各业务变更的扇出落库 + HTTP 拉取。
// 约定：扇出写和触发它的主写同一个事务——扇出失败即整个操作失败，
// 没有"尽力而为"的语义。
type NotificationService struct {
	*Service
	dao *models.NotificationDAO
}

func NewNotificationService(s *Service) *NotificationService {
	log.Println("NewNotificationService")
	return &NotificationService{Service: s, dao: models.NewNotificationDAO(s.DB)}
}

// NotificationDTO 通知返回结构
type NotificationDTO struct {
	ID        uint64         `json:"id"`
	UserID    uint64         `json:"user_id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Type      string         `json:"type"`
	Data      datatypes.JSON `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

func toNotificationDTO(n *models.PushNotification) *NotificationDTO {
	if n == nil {
		return nil
	}
	return &NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Body:      n.Body,
		Type:      n.Type,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// BuildRows 把一次扇出展开为通知行。
// - 去重
// - 排除 actor（actorID=0 表示没有操作者语义，不排除任何人）
func (s *NotificationService) BuildRows(actorID uint64, recipients []uint64, typ, title, body string, payload any) ([]models.PushNotification, error) {
	var data datatypes.JSON
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}

	now := time.Now()

	uniq := make(map[uint64]struct{}, len(recipients))
	rows := make([]models.PushNotification, 0, len(recipients))
	for _, uid := range recipients {
		if uid == 0 {
			continue
		}
		if actorID != 0 && uid == actorID {
			continue
		}
		if _, ok := uniq[uid]; ok {
			continue
		}
		uniq[uid] = struct{}{}
		rows = append(rows, models.PushNotification{
			UserID:    uid,
			Title:     title,
			Body:      body,
			Type:      typ,
			Data:      data,
			CreatedAt: now,
		})
	}
	return rows, nil
}

// FanOut 在调用方事务内批量写入通知。收件人为空时不产生任何写。
func (s *NotificationService) FanOut(tx *gorm.DB, actorID uint64, recipients []uint64, typ, title, body string, payload any) error {
	rows, err := s.BuildRows(actorID, recipients, typ, title, body, payload)
	if err != nil {
		return err
	}
	return s.InsertRows(tx, rows)
}

// InsertRows 批量落库（单条 INSERT）
func (s *NotificationService) InsertRows(tx *gorm.DB, rows []models.PushNotification) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// CreateNotificationReq 直接创建通知的请求
type CreateNotificationReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
	Type   string `json:"type" binding:"required"`
	Data   any    `json:"data"`
}

// CreateNotification 直接创建一条通知。
// 未知 user_id 不做预检：由外键约束拒绝，按存储层错误上抛。
func (s *NotificationService) CreateNotification(req CreateNotificationReq) (*NotificationDTO, error) {
	if req.UserID == 0 {
		return nil, apperr.InvalidArg("user_id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.InvalidArg("title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperr.InvalidArg("body is required")
	}
	if !cons.ValidNotifyType(req.Type) {
		return nil, apperr.InvalidArg("invalid notification type")
	}

	var data datatypes.JSON
	if req.Data != nil {
		b, err := json.Marshal(req.Data)
		if err != nil {
			return nil, apperr.InvalidArg("data is not serializable")
		}
		data = b
	}

	n := &models.PushNotification{
		UserID:    req.UserID,
		Title:     req.Title,
		Body:      req.Body,
		Type:      req.Type,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.dao.Create(n); err != nil {
		return nil, apperr.Persistence("failed to create notification", err)
	}
	return toNotificationDTO(n), nil
}

// MarkRead 标记已读。幂等：重复标记成功且内容不变。
func (s *NotificationService) MarkRead(id uint64) (*NotificationDTO, error) {
	n, err := s.dao.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, err
	}

	if err := s.dao.MarkRead(id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return toNotificationDTO(n), nil
}

// ListUserNotifications 拉取用户通知（created_at 倒序，limit 默认 20）
func (s *NotificationService) ListUserNotifications(userID uint64, limit, offset int) ([]NotificationDTO, error) {
	if userID == 0 {
		return nil, apperr.InvalidArg("user_id is required")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.dao.FindByUserID(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toNotificationDTO(&rows[i]))
	}
	return out, nil
}
