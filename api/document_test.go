package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowread/api/model"
)

// TestUploadDocumentAPI 测试文档上传接口
func TestUploadDocumentAPI(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("plain text upload", func(t *testing.T) {
		info := uploadTestDocument(t, env, "reading.txt", "The quick brown fox jumps over the lazy dog")

		assert.Equal(t, "reading", info.Title)
		assert.Equal(t, "txt", info.FileType)
		assert.Equal(t, 9, info.WordCount)
		assert.Equal(t, "completed", info.Status, "同步处理完成后状态应该是completed")
		assert.NotNil(t, info.ProcessedAt)
	})

	t.Run("markdown upload", func(t *testing.T) {
		info := uploadTestDocument(t, env, "notes.md", "# Title\n\nSome **bold** words here")

		assert.Equal(t, "md", info.FileType)
		assert.Equal(t, "completed", info.Status)
	})

	t.Run("uppercase extension accepted", func(t *testing.T) {
		info := uploadTestDocument(t, env, "NOTES.TXT", "Reading speed matters")

		assert.Equal(t, "txt", info.FileType, "扩展名大小写不应该影响上传")
		assert.Equal(t, "completed", info.Status)
	})

	t.Run("missing file", func(t *testing.T) {
		w := doJSON(env, http.MethodPost, "/api/documents", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported file type", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "report.pdf")
		require.NoError(t, err)
		_, err = io.WriteString(part, "%PDF-1.4 fake content")
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported file type")
	})

	t.Run("empty document rejected", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "empty.txt")
		require.NoError(t, err)
		_, err = io.WriteString(part, "   \n\t\n")
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		env.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "空白文档应该返回400")
		assert.Contains(t, w.Body.String(), "no text found in the document")
	})
}

// TestGetDocumentWordsAPI 测试分词流接口
func TestGetDocumentWordsAPI(t *testing.T) {
	env := setupTestEnv(t)

	info := uploadTestDocument(t, env, "sample.txt", "Hello reading world")

	t.Run("words for existing document", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents/"+info.ID+"/words", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data model.DocumentWordsResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		require.Len(t, resp.Data.Words, 3)
		assert.Equal(t, info.ID, resp.Data.DocumentID)

		// 词序必须与原文一致
		assert.Equal(t, "Hello", resp.Data.Words[0].Word)
		assert.Equal(t, "reading", resp.Data.Words[1].Word)
		assert.Equal(t, "world", resp.Data.Words[2].Word)

		// 音节拼接必须还原原词
		for _, word := range resp.Data.Words {
			assert.Equal(t, word.Word, strings.Join(word.Syllables, ""), "音节拼接应该还原原词")
			assert.Len(t, word.Vowels, len(word.Syllables), "元音数组与音节数组应该等长")
		}

		// reading → read-ing
		assert.Equal(t, []string{"read", "ing"}, resp.Data.Words[1].Syllables)
	})

	t.Run("words for missing document", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents/no-such-id/words", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestDocumentCRUDAPI 测试文档查询和删除接口
func TestDocumentCRUDAPI(t *testing.T) {
	env := setupTestEnv(t)

	first := uploadTestDocument(t, env, "first.txt", "one two three")
	second := uploadTestDocument(t, env, "second.txt", "four five six seven")

	t.Run("get document", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents/"+first.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data model.DocumentInfo `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, first.ID, resp.Data.ID)
		assert.Equal(t, 3, resp.Data.WordCount)
	})

	t.Run("get missing document", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents/no-such-id", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list documents", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents?page=1&page_size=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data model.DocumentListResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Data.Total)
		assert.Len(t, resp.Data.Documents, 2)
	})

	t.Run("list with status filter", func(t *testing.T) {
		w := doJSON(env, http.MethodGet, "/api/documents?status=failed", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data model.DocumentListResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(0), resp.Data.Total, "没有失败的文档")
	})

	t.Run("delete document", func(t *testing.T) {
		w := doJSON(env, http.MethodDelete, "/api/documents/"+second.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data model.DocumentDeleteResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Success)
		assert.Equal(t, second.ID, resp.Data.ID)

		// 文档应该已经不存在
		w = doJSON(env, http.MethodGet, "/api/documents/"+second.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete missing document", func(t *testing.T) {
		w := doJSON(env, http.MethodDelete, "/api/documents/no-such-id", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
