package hyphen

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	_ "embed"
)

//go:embed patterns/en.txt
var englishPatternData string

// Dictionary 基于Liang模式的断词词典
// 初始化后不可变，可被多个请求并发读取
type Dictionary struct {
	patterns   map[string][]int // 模式块 -> 各间隙的优先级数值
	exceptions map[string][]int // 小写整词 -> 词内断点（按rune偏移）
	leftMin    int              // 断点左侧至少保留的字符数
	rightMin   int              // 断点右侧至少保留的字符数
}

// 默认的断点边界约束
const (
	defaultLeftMin  = 2
	defaultRightMin = 2
)

// Parse 从模式文件构建词典
// 文件格式：每行一个Liang模式；"% exceptions"之后为整词例外表；
// "#"开头为注释行
func Parse(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{
		patterns:   make(map[string][]int),
		exceptions: make(map[string][]int),
		leftMin:    defaultLeftMin,
		rightMin:   defaultRightMin,
	}

	scanner := bufio.NewScanner(r)
	inExceptions := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// 跳过空行和注释
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// 切换到例外表区段
		if strings.HasPrefix(line, "%") {
			if strings.Contains(line, "exceptions") {
				inExceptions = true
			}
			continue
		}

		if inExceptions {
			word, breaks := parseException(line)
			d.exceptions[word] = breaks
			continue
		}

		chunk, points, err := parsePattern(line)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern at line %d: %w", lineNo, err)
		}
		d.patterns[chunk] = points
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pattern data: %w", err)
	}

	return d, nil
}

// parsePattern 解析单个模式，例如 "l1l" -> 块"ll"与间隙数值[0,1,0]
func parsePattern(s string) (string, []int, error) {
	var chunk []rune
	points := []int{0}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			points[len(points)-1] = int(r - '0')
		case unicode.IsLetter(r) || r == '.':
			chunk = append(chunk, unicode.ToLower(r))
			points = append(points, 0)
		default:
			return "", nil, fmt.Errorf("unexpected character %q", r)
		}
	}

	if len(chunk) == 0 {
		return "", nil, fmt.Errorf("pattern has no letters")
	}

	return string(chunk), points, nil
}

// parseException 解析例外词条，例如 "ta-ble" -> ("table", [2])
// 不含"-"的词条表示整词永不拆分
func parseException(s string) (string, []int) {
	var word []rune
	var breaks []int

	for _, r := range strings.ToLower(s) {
		if r == '-' {
			breaks = append(breaks, len(word))
			continue
		}
		word = append(word, r)
	}

	return string(word), breaks
}

// Breakpoints 返回word内部的合法断点位置（严格递增的rune偏移）
// 返回nil表示整词不可拆分
func (d *Dictionary) Breakpoints(word string) []int {
	runes := []rune(word)

	// 跳过词首/词尾附着的标点，只对字母核心做模式匹配
	start := 0
	for start < len(runes) && !unicode.IsLetter(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !unicode.IsLetter(runes[end-1]) {
		end--
	}

	core := runes[start:end]
	n := len(core)
	if n < d.leftMin+d.rightMin {
		return nil
	}

	lower := make([]rune, n)
	for i, r := range core {
		// 核心内夹杂非字母（数字、撇号等）时放弃拆分
		if !unicode.IsLetter(r) {
			return nil
		}
		lower[i] = unicode.ToLower(r)
	}

	// 例外表优先于模式匹配
	if breaks, ok := d.exceptions[string(lower)]; ok {
		return d.offsetBreaks(breaks, start, n)
	}

	return d.offsetBreaks(d.patternBreaks(lower), start, n)
}

// patternBreaks 对小写字母序列执行Liang模式匹配
// 返回相对于该序列的断点偏移
func (d *Dictionary) patternBreaks(lower []rune) []int {
	n := len(lower)

	// 首尾加"."锚点
	work := make([]rune, 0, n+2)
	work = append(work, '.')
	work = append(work, lower...)
	work = append(work, '.')

	// points[g]为work中第g个字符之前间隙的优先级
	points := make([]int, len(work)+1)
	for i := 0; i < len(work); i++ {
		for j := i + 1; j <= len(work); j++ {
			pts, ok := d.patterns[string(work[i:j])]
			if !ok {
				continue
			}
			for k, v := range pts {
				if v > points[i+k] {
					points[i+k] = v
				}
			}
		}
	}

	// 奇数优先级的间隙即为断点
	var breaks []int
	for m := d.leftMin; m <= n-d.rightMin; m++ {
		if points[m+1]%2 == 1 {
			breaks = append(breaks, m)
		}
	}
	return breaks
}

// offsetBreaks 将核心内断点映射回原词偏移，并过滤过短的片段
func (d *Dictionary) offsetBreaks(breaks []int, start, n int) []int {
	if len(breaks) == 0 {
		return nil
	}

	result := make([]int, 0, len(breaks))
	prev := 0
	for _, b := range breaks {
		if b <= 0 || b >= n {
			continue
		}
		// 相邻断点至少间隔2个字符，避免产生单字符碎片
		if b-prev < 2 {
			continue
		}
		result = append(result, start+b)
		prev = b
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// LeftMin 返回断点左侧的最小字符数
func (d *Dictionary) LeftMin() int { return d.leftMin }

// RightMin 返回断点右侧的最小字符数
func (d *Dictionary) RightMin() int { return d.rightMin }

var (
	englishOnce sync.Once
	englishDict *Dictionary
)

// English 返回进程级的英语断词词典
// 首次调用时从内嵌模式表构建，之后复用同一实例
func English() *Dictionary {
	englishOnce.Do(func() {
		d, err := Parse(strings.NewReader(englishPatternData))
		if err != nil {
			// 内嵌数据随二进制一起发布，解析失败属于构建错误
			panic(fmt.Sprintf("hyphen: failed to parse embedded english patterns: %v", err))
		}
		englishDict = d
	})
	return englishDict
}

// ForLanguage 根据语言代码返回词典
// 目前仅支持英语，语言在部署时固定
func ForLanguage(lang string) (*Dictionary, error) {
	switch strings.ToLower(lang) {
	case "", "en", "en-us", "en_us":
		return English(), nil
	default:
		return nil, fmt.Errorf("unsupported hyphenation language: %s", lang)
	}
}
