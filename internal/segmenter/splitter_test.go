package segmenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flowread/internal/hyphen"
)

// stubHyphenator 返回固定断点的测试桩
type stubHyphenator struct {
	breaks map[string][]int
}

func (s *stubHyphenator) Breakpoints(word string) []int {
	return s.breaks[word]
}

// TestSplit 测试音节切分
func TestSplit(t *testing.T) {
	t.Run("basic split", func(t *testing.T) {
		splitter := NewSyllableSplitter(&stubHyphenator{
			breaks: map[string][]int{"hello": {3}},
		})
		assert.Equal(t, []string{"hel", "lo"}, splitter.Split("hello"))
	})

	t.Run("multiple breakpoints", func(t *testing.T) {
		splitter := NewSyllableSplitter(&stubHyphenator{
			breaks: map[string][]int{"understand": {2, 5}},
		})
		assert.Equal(t, []string{"un", "der", "stand"}, splitter.Split("understand"))
	})

	t.Run("no breakpoints returns whole word", func(t *testing.T) {
		splitter := NewSyllableSplitter(&stubHyphenator{breaks: map[string][]int{}})
		assert.Equal(t, []string{"world"}, splitter.Split("world"))
		assert.Equal(t, []string{"a"}, splitter.Split("a"))
		assert.Equal(t, []string{""}, splitter.Split(""))
	})

	t.Run("invalid breakpoints are discarded", func(t *testing.T) {
		splitter := NewSyllableSplitter(&stubHyphenator{
			breaks: map[string][]int{
				"hello": {0, 3, 3, 99},
			},
		})
		// 越界和重复的断点被丢弃，剩余断点照常生效
		assert.Equal(t, []string{"hel", "lo"}, splitter.Split("hello"))
	})

	t.Run("all breakpoints invalid", func(t *testing.T) {
		splitter := NewSyllableSplitter(&stubHyphenator{
			breaks: map[string][]int{"hello": {0, 5, 99}},
		})
		assert.Equal(t, []string{"hello"}, splitter.Split("hello"))
	})

	t.Run("multibyte runes", func(t *testing.T) {
		// 断点按rune偏移切分，多字节字符不会被截断
		splitter := NewSyllableSplitter(&stubHyphenator{
			breaks: map[string][]int{"naïve": {3}},
		})
		assert.Equal(t, []string{"naï", "ve"}, splitter.Split("naïve"))
	})
}

// TestSplitRoundTrip 验证拼接不变式：音节按序拼接等于原单词
func TestSplitRoundTrip(t *testing.T) {
	splitter := NewSyllableSplitter(hyphen.English())

	words := []string{
		"hello", "world", "letter", "reading", "understand",
		"nation", "quickly", "table", "running", "a", "I",
		"Hello,", "world!", "(hello)", "don't", "123", "naïve",
		"it's", "well-known", "HELLO", "présent",
	}

	for _, word := range words {
		syllables := splitter.Split(word)
		assert.NotEmpty(t, syllables, "每个单词至少产生一个音节: %s", word)
		assert.Equal(t, word, strings.Join(syllables, ""), "音节拼接必须还原原单词: %s", word)
	}
}
