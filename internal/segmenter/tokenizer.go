package segmenter

import (
	"errors"
	"strings"
)

// ErrNoText 文本中没有任何单词时返回的错误
// API层将其转换为客户端错误（400）
var ErrNoText = errors.New("no text found in the document")

// Tokenize 将原始文本切分为有序的单词序列
// 按Unicode空白符的连续段切分，丢弃空token，保留原始顺序；
// 不做大小写归一化，附着在单词上的标点保留在token中
func Tokenize(text string) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrNoText
	}
	return words, nil
}

// WordCount 统计文本中的单词数量
// 空文本返回0，不报错，供上传路径快速校验使用
func WordCount(text string) int {
	return len(strings.Fields(text))
}
