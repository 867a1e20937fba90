package models

import (
	"gorm.io/gorm"
)

// NotificationDAO 封装 PushNotification 相关的数据库操作
type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{db: db}
}

func (dao *NotificationDAO) Create(n *PushNotification) error {
	return dao.db.Create(n).Error
}

func (dao *NotificationDAO) FindByID(id uint64) (*PushNotification, error) {
	var n PushNotification
	if err := dao.db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// FindByUserID 按接收者分页列出通知（created_at 倒序）
func (dao *NotificationDAO) FindByUserID(userID uint64, limit, offset int) ([]PushNotification, error) {
	var rows []PushNotification
	err := dao.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

// MarkRead 标记已读。幂等：对已读通知重复调用只是再写一次 true。
func (dao *NotificationDAO) MarkRead(id uint64) error {
	return dao.db.Model(&PushNotification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
