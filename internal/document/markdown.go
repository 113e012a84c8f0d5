package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
// 提取正文文本，丢弃格式标记，供分词流水线消费
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open markdown file: %v", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析Markdown内容
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %v", err)
	}

	// 先渲染为HTML，再剥离标签得到纯文本
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse(content)

	// 不启用Smartypants，花式引号实体会污染提取出的单词
	renderer := html.NewRenderer(html.RendererOptions{})
	htmlContent := markdown.Render(doc, renderer)

	return stripHTML(string(htmlContent)), nil
}

// 块级标签结束时补换行，避免相邻段落的单词粘连
var blockBreaks = []string{
	"</p>", "</li>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>",
	"</blockquote>", "</pre>", "<br>", "<br/>", "<br />",
}

// stripHTML 从HTML中提取纯文本
func stripHTML(s string) string {
	for _, tag := range blockBreaks {
		s = strings.ReplaceAll(s, tag, "\n")
	}

	// 移除剩余的HTML标签
	var sb strings.Builder
	sb.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			sb.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}

	text := sb.String()
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	return normalizeWhitespace(text)
}

// normalizeWhitespace 规范化文本中的空白符
// 行内连续空白压成单个空格，保留段落边界
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
