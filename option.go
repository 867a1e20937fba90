package chat_backend

import "gorm.io/gorm"
import "github.com/go-redis/redis/v8"

type Config struct {
	DB          *gorm.DB
	RDB         *redis.Client
	TablePrefix string

	// NotifyBodyLimit 消息通知正文截断长度（rune 数），0 使用默认值 75。
	NotifyBodyLimit int
}

type Option func(*Config)

func WithDB(db *gorm.DB) Option {
	return func(c *Config) {
		c.DB = db
	}
}

func WithRDB(rdb *redis.Client) Option {
	return func(c *Config) {
		c.RDB = rdb
	}
}

func WithTablePrefix(prefix string) Option {
	return func(c *Config) {
		c.TablePrefix = prefix
	}
}

// WithNotifyBodyLimit 配置 new_message 通知正文的截断长度。
func WithNotifyBodyLimit(limit int) Option {
	return func(c *Config) {
		c.NotifyBodyLimit = limit
	}
}
