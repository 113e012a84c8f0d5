package segmenter

import "unicode"

// VowelIndices 返回音节中所有元音字母(a/e/i/o/u，忽略大小写)的位置
// 位置是从0开始的rune下标而不是字节偏移；
// 没有元音时返回空切片而不是nil，保证JSON序列化为[]
func VowelIndices(syllable string) []int {
	indices := make([]int, 0)
	pos := 0
	for _, r := range syllable {
		switch unicode.ToLower(r) {
		case 'a', 'e', 'i', 'o', 'u':
			indices = append(indices, pos)
		}
		pos++
	}
	return indices
}
