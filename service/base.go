package service

import (
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// DefaultNotifyBodyLimit 消息通知正文的默认截断长度（rune 数）。
// 截断行为：超过上限取前缀 + "..."，否则原样。
const DefaultNotifyBodyLimit = 75

// Service 基础服务，包含数据库和配置
type Service struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string

	// NotifyBodyLimit 消息通知正文截断长度，0 表示使用默认值
	NotifyBodyLimit int

	// Notify 通知服务（落库式扇出 + HTTP 拉取；没有实时推送通道）
	Notify *NotificationService

	// Presence 在线状态缓存（可选，仅在配置了 Redis 时注入）
	Presence *PresenceService
}

// Table 获取带前缀的表名
func (s *Service) Table(name string) *gorm.DB {
	return s.DB.Table(name)
}

func (s *Service) bodyLimit() int {
	if s.NotifyBodyLimit > 0 {
		return s.NotifyBodyLimit
	}
	return DefaultNotifyBodyLimit
}
