package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParserFactory 测试解析器工厂
func TestParserFactory(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		p, err := ParserFactory("notes.txt")
		require.NoError(t, err)
		assert.IsType(t, &PlainTextParser{}, p)
	})

	t.Run("markdown", func(t *testing.T) {
		for _, name := range []string{"readme.md", "guide.markdown", "UPPER.MD"} {
			p, err := ParserFactory(name)
			require.NoError(t, err, "文件 %s 应该有对应的解析器", name)
			assert.IsType(t, &MarkdownParser{}, p)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		for _, name := range []string{"report.pdf", "doc.docx", "archive.zip", "noext"} {
			p, err := ParserFactory(name)
			assert.Error(t, err, "文件 %s 不应该有解析器", name)
			assert.Nil(t, p)
		}
	})
}

// TestTitleFromFilename 测试标题推导
func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "notes", TitleFromFilename("notes.txt"))
	assert.Equal(t, "my book", TitleFromFilename("/uploads/my book.md"))
	assert.Equal(t, ".env", TitleFromFilename(".env"), "无主名的文件回退为文件名本身")
}

// TestPlainTextParser 测试纯文本解析
func TestPlainTextParser(t *testing.T) {
	parser := NewPlainTextParser()

	t.Run("parse reader", func(t *testing.T) {
		text, err := parser.ParseReader(strings.NewReader("Hello world\nsecond line"), "test.txt")
		require.NoError(t, err)
		assert.Equal(t, "Hello world\nsecond line", text, "纯文本原样返回")
	})

	t.Run("parse file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.txt")
		require.NoError(t, os.WriteFile(path, []byte("file content here"), 0644))

		text, err := parser.Parse(path)
		require.NoError(t, err)
		assert.Equal(t, "file content here", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse("/no/such/file.txt")
		assert.Error(t, err)
	})
}

// TestMarkdownParser 测试Markdown解析
func TestMarkdownParser(t *testing.T) {
	parser := NewMarkdownParser()

	t.Run("strips formatting", func(t *testing.T) {
		md := "# Title\n\nSome **bold** and *italic* text.\n\n- item one\n- item two\n"
		text, err := parser.ParseReader(strings.NewReader(md), "test.md")
		require.NoError(t, err)

		assert.Contains(t, text, "Title")
		assert.Contains(t, text, "bold")
		assert.Contains(t, text, "item one")
		assert.NotContains(t, text, "#", "标题标记应该被去掉")
		assert.NotContains(t, text, "**", "加粗标记应该被去掉")
		assert.NotContains(t, text, "<", "不应该残留HTML标签")
	})

	t.Run("block boundaries become line breaks", func(t *testing.T) {
		md := "first paragraph\n\nsecond paragraph"
		text, err := parser.ParseReader(strings.NewReader(md), "test.md")
		require.NoError(t, err)

		lines := strings.Split(text, "\n")
		assert.GreaterOrEqual(t, len(lines), 2, "段落之间应该有换行，避免单词粘连")
		assert.Contains(t, lines[0], "first paragraph")
	})

	t.Run("html entities are decoded", func(t *testing.T) {
		md := "Tom & Jerry's \"show\""
		text, err := parser.ParseReader(strings.NewReader(md), "test.md")
		require.NoError(t, err)

		assert.Contains(t, text, "&")
		assert.NotContains(t, text, "&amp;")
		assert.NotContains(t, text, "&quot;")
	})

	t.Run("parse file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.md")
		require.NoError(t, os.WriteFile(path, []byte("# Heading\n\nbody text"), 0644))

		text, err := parser.Parse(path)
		require.NoError(t, err)
		assert.Contains(t, text, "Heading")
		assert.Contains(t, text, "body text")
	})
}
