package service

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/cydxin/chatapp-backend/models"
)

const presenceKey = "chat:online_users"

// PresenceService 在线用户缓存。
// 数据库里的 status 字段是事实来源；这里只是状态变更时顺带维护的
// Redis 集合，给调用方一个便宜的"是否在线"探针。维护失败不影响主流程。
type PresenceService struct {
	rdb *redis.Client
}

func NewPresenceService(rdb *redis.Client) *PresenceService {
	return &PresenceService{rdb: rdb}
}

// Track 按新状态维护在线集合：online 加入，offline/away 移除。
func (s *PresenceService) Track(ctx context.Context, userID uint64, status string) error {
	if status == models.StatusOnline {
		return s.SetOnline(ctx, userID)
	}
	return s.SetOffline(ctx, userID)
}

func (s *PresenceService) SetOnline(ctx context.Context, userID uint64) error {
	return s.rdb.SAdd(ctx, presenceKey, userID).Err()
}

func (s *PresenceService) SetOffline(ctx context.Context, userID uint64) error {
	return s.rdb.SRem(ctx, presenceKey, userID).Err()
}

func (s *PresenceService) IsOnline(ctx context.Context, userID uint64) (bool, error) {
	return s.rdb.SIsMember(ctx, presenceKey, userID).Result()
}

// OnlineIDs 当前缓存的在线用户 ID 集合（无序）
func (s *PresenceService) OnlineIDs(ctx context.Context) ([]uint64, error) {
	members, err := s.rdb.SMembers(ctx, presenceKey).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
