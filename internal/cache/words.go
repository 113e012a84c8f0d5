package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"flowread/internal/segmenter"
)

// 单词流缓存键的前缀
const wordStreamPrefix = "words"

// WordStreamCache 文档单词流的类型化缓存
// 把流水线的处理结果按文档ID缓存，避免重复切分同一篇文档
type WordStreamCache struct {
	backend Cache
	ttl     time.Duration
}

// NewWordStreamCache 创建单词流缓存
// ttl为0时使用后端的默认过期时间
func NewWordStreamCache(backend Cache, ttl time.Duration) *WordStreamCache {
	return &WordStreamCache{
		backend: backend,
		ttl:     ttl,
	}
}

// Get 读取文档的缓存单词流
// 缓存未命中或内容损坏时返回found=false
func (c *WordStreamCache) Get(docID string) ([]segmenter.ProcessedWord, bool, error) {
	raw, found, err := c.backend.Get(c.key(docID))
	if err != nil || !found {
		return nil, false, err
	}

	var words []segmenter.ProcessedWord
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		// 损坏的条目当作未命中，删除后让调用方重新计算
		_ = c.backend.Delete(c.key(docID))
		return nil, false, nil
	}

	return words, true, nil
}

// Set 写入文档的单词流
func (c *WordStreamCache) Set(docID string, words []segmenter.ProcessedWord) error {
	raw, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to marshal word stream: %w", err)
	}

	return c.backend.Set(c.key(docID), string(raw), c.ttl)
}

// Invalidate 删除文档的缓存单词流
func (c *WordStreamCache) Invalidate(docID string) error {
	return c.backend.Delete(c.key(docID))
}

func (c *WordStreamCache) key(docID string) string {
	return GenerateCacheKey(wordStreamPrefix, docID)
}
