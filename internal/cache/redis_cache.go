package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache 基于Redis的共享缓存
// 多实例部署时让各实例命中同一份单词流
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建Redis缓存，连接不可用时立即报错
func NewRedisCache(config Config) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Get 读取缓存，键不存在不算错误
func (r *RedisCache) Get(key string) (string, bool, error) {
	value, err := r.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set 写入缓存
func (r *RedisCache) Set(key string, value string, ttl time.Duration) error {
	return r.client.Set(context.Background(), key, value, ttl).Err()
}

// Delete 删除缓存项
func (r *RedisCache) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}

// Clear 清空所有缓存
// 会清掉整个Redis数据库，只应在专用DB编号上使用
func (r *RedisCache) Clear() error {
	return r.client.FlushDB(context.Background()).Err()
}
