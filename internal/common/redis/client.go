package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/nerufirm/appneruf/internal/common/config"
)

// Client 供调用方引用，无需直接导入 go-redis
type Client = redis.Client

// NewRedisClient 只构造客户端，不发起连接；可用性由 Ping 判断
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping 启动时探测 Redis；失败时 session 退回内存 KV
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close 允许 nil（Redis 不可用时 main 已置空）
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
