package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 基于go-cache的进程内缓存
// 单实例部署的默认后端，进程重启后单词流需要重新计算
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(config Config) (Cache, error) {
	ttl := config.DefaultTTL
	if ttl == 0 {
		ttl = DefaultConfig().DefaultTTL
	}

	cleanup := config.CleanupInterval
	if cleanup == 0 {
		cleanup = DefaultConfig().CleanupInterval
	}

	return &MemoryCache{
		cache: gocache.New(ttl, cleanup),
	}, nil
}

// Get 读取缓存，不存在或类型不符时found为false
func (m *MemoryCache) Get(key string) (string, bool, error) {
	value, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}

	str, ok := value.(string)
	if !ok {
		return "", false, nil
	}
	return str, true, nil
}

// Set 写入缓存，ttl为0时使用默认过期时间
func (m *MemoryCache) Set(key string, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

// Delete 删除缓存项
func (m *MemoryCache) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}

// Clear 清空所有缓存
func (m *MemoryCache) Clear() error {
	m.cache.Flush()
	return nil
}
