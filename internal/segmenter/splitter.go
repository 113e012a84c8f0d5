package segmenter

// Hyphenator 提供单词内部的断点位置
// 返回严格递增的rune下标序列，每个下标都落在(0, len(runes))开区间内；
// 无法切分时返回nil
type Hyphenator interface {
	Breakpoints(word string) []int
}

// SyllableSplitter 基于断词神谕把单词切分为音节
type SyllableSplitter struct {
	hyphenator Hyphenator
}

// NewSyllableSplitter 创建音节切分器
func NewSyllableSplitter(h Hyphenator) *SyllableSplitter {
	return &SyllableSplitter{hyphenator: h}
}

// Split 把单词切分为音节序列
// 不变式：所有音节按序拼接后与原单词逐字节相同；
// 无法切分的单词返回只含自身的单元素切片，空串也遵循同样约定
func (s *SyllableSplitter) Split(word string) []string {
	if word == "" {
		return []string{word}
	}

	breaks := s.hyphenator.Breakpoints(word)
	if len(breaks) == 0 {
		return []string{word}
	}

	runes := []rune(word)
	syllables := make([]string, 0, len(breaks)+1)
	prev := 0
	for _, b := range breaks {
		// 越界或乱序的断点直接丢弃，拼接不变式优先于切分质量
		if b <= prev || b >= len(runes) {
			continue
		}
		syllables = append(syllables, string(runes[prev:b]))
		prev = b
	}
	syllables = append(syllables, string(runes[prev:]))

	if len(syllables) < 2 {
		return []string{word}
	}
	return syllables
}
