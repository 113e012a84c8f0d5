package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowread/internal/segmenter"
)

// TestMemoryCache 测试内存缓存的基本功能
func TestMemoryCache(t *testing.T) {
	config := Config{
		Type:            "memory",
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	}
	c, err := NewMemoryCache(config)
	require.NoError(t, err)
	require.NotNil(t, c)

	t.Run("set and get", func(t *testing.T) {
		err := c.Set("key1", "value1", 0) // 使用默认TTL
		assert.NoError(t, err)

		val, found, err := c.Get("key1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "value1", val)
	})

	t.Run("missing key", func(t *testing.T) {
		val, found, err := c.Get("non-existent")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, val)
	})

	t.Run("expiration", func(t *testing.T) {
		err := c.Set("expire-soon", "temp-value", time.Millisecond*200)
		assert.NoError(t, err)

		time.Sleep(time.Millisecond * 400)

		_, found, err := c.Get("expire-soon")
		assert.NoError(t, err)
		assert.False(t, found, "过期条目不应该命中")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("to-delete", "delete-me", 0))
		assert.NoError(t, c.Delete("to-delete"))

		_, found, _ := c.Get("to-delete")
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set("a", "1", 0))
		require.NoError(t, c.Set("b", "2", 0))
		assert.NoError(t, c.Clear())

		_, found, _ := c.Get("a")
		assert.False(t, found)
	})
}

// TestRedisCache 使用miniredis测试Redis缓存
func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	config := Config{
		Type:      "redis",
		RedisAddr: mr.Addr(),
	}
	c, err := NewRedisCache(config)
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set("rkey", "rvalue", time.Minute))

		val, found, err := c.Get("rkey")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "rvalue", val)
	})

	t.Run("missing key", func(t *testing.T) {
		_, found, err := c.Get("nope")
		assert.NoError(t, err, "键不存在不算错误")
		assert.False(t, found)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		require.NoError(t, c.Set("short", "lived", time.Second))

		// miniredis用FastForward模拟时间流逝
		mr.FastForward(time.Second * 2)

		_, found, err := c.Get("short")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("del", "me", time.Minute))
		assert.NoError(t, c.Delete("del"))

		_, found, _ := c.Get("del")
		assert.False(t, found)
	})
}

// TestNewCache 测试缓存工厂
func TestNewCache(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		c, err := NewCache(Config{Type: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryCache{}, c)
	})

	t.Run("unknown type falls back to memory", func(t *testing.T) {
		c, err := NewCache(Config{Type: "unknown"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryCache{}, c)
	})
}

// TestGenerateCacheKey 测试缓存键生成
func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "words", GenerateCacheKey("words"))
	assert.Equal(t, "words:doc-1", GenerateCacheKey("words", "doc-1"))
	assert.Equal(t, "a:b:c", GenerateCacheKey("a", "b", "c"))
}

// TestWordStreamCache 测试单词流缓存
func TestWordStreamCache(t *testing.T) {
	backend, err := NewMemoryCache(Config{})
	require.NoError(t, err)

	wsc := NewWordStreamCache(backend, time.Minute)

	words := []segmenter.ProcessedWord{
		{Word: "Hello", Syllables: []string{"Hel", "lo"}, Vowels: [][]int{{1}, {1}}},
		{Word: "world", Syllables: []string{"world"}, Vowels: [][]int{{1}}},
	}

	t.Run("miss before set", func(t *testing.T) {
		_, found, err := wsc.Get("doc-1")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, wsc.Set("doc-1", words))

		got, found, err := wsc.Get("doc-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, words, got, "缓存读出的单词流应该和写入的一致")
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, wsc.Set("doc-2", words))
		require.NoError(t, wsc.Invalidate("doc-2"))

		_, found, err := wsc.Get("doc-2")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("corrupted entry treated as miss", func(t *testing.T) {
		require.NoError(t, backend.Set("words:doc-bad", "{not json", time.Minute))

		_, found, err := wsc.Get("doc-bad")
		assert.NoError(t, err)
		assert.False(t, found, "损坏的缓存条目应该当作未命中")
	})
}
