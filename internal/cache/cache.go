package cache

import (
	"time"
)

// Cache 字符串键值缓存的后端接口
// 单词流缓存在它上面做序列化，后端只管存取字符串
type Cache interface {
	Get(key string) (value string, found bool, err error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Config 缓存配置
type Config struct {
	// 后端类型: "memory" 或 "redis"
	Type string
	// Redis连接地址 (仅Redis后端使用)
	RedisAddr string
	// Redis密码 (仅Redis后端使用)
	RedisPassword string
	// Redis数据库编号 (仅Redis后端使用)
	RedisDB int
	// 默认缓存过期时间
	DefaultTTL time.Duration
	// 过期条目的清理间隔 (仅内存后端使用)
	CleanupInterval time.Duration
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute * 10,
	}
}

// NewCache 根据配置类型创建缓存后端
// 未识别的类型回退到内存缓存，保证单机部署开箱可用
func NewCache(config Config) (Cache, error) {
	switch config.Type {
	case "redis":
		return NewRedisCache(config)
	default:
		return NewMemoryCache(config)
	}
}

// GenerateCacheKey 用冒号拼接出标准化的缓存键
func GenerateCacheKey(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
