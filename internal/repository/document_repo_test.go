package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"flowread/internal/database"
	"flowread/internal/models"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// 使用唯一的内存数据库标识符
	dbName := fmt.Sprintf("file:memdb_%d?mode=memory", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")

	// 运行迁移以创建所需的表
	err = db.AutoMigrate(&models.Document{}, &models.ReadingSession{})
	require.NoError(t, err, "Failed to run migrations")

	// 保存原始全局DB引用
	originalDB := database.DB

	// 替换全局DB为测试DB
	database.DB = db

	// 返回测试DB和清理函数
	cleanup := func() {
		// 恢复原始DB引用
		database.DB = originalDB
	}

	return db, cleanup
}

func newTestDocument(id string) *models.Document {
	return &models.Document{
		ID:        id,
		Title:     "test.txt",
		Content:   "Hello world from the reading engine",
		FileType:  "txt",
		FilePath:  "/path/to/test.txt",
		FileSize:  1024,
		WordCount: 6,
		Status:    models.DocStatusUploaded,
	}
}

func TestDocumentRepository_Create(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("test-doc-1")
	err := repo.Create(doc)
	assert.NoError(t, err, "Document creation should succeed")

	// 验证文档已创建
	savedDoc, err := repo.GetByID(doc.ID)
	assert.NoError(t, err, "Should be able to retrieve created document")
	assert.Equal(t, doc.ID, savedDoc.ID, "Document ID should match")
	assert.Equal(t, doc.Title, savedDoc.Title, "Document title should match")
	assert.Equal(t, doc.Content, savedDoc.Content, "Document content should match")
	assert.Equal(t, doc.WordCount, savedDoc.WordCount, "Word count should match")
	assert.Equal(t, doc.Status, savedDoc.Status, "Document status should match")
	assert.False(t, savedDoc.UploadedAt.IsZero(), "Upload time should be set by hook")
}

func TestDocumentRepository_CreateWithoutID(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("")
	err := repo.Create(doc)
	assert.Error(t, err, "Creating document without ID should fail")
}

func TestDocumentRepository_Update(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("test-doc-2")
	require.NoError(t, repo.Create(doc))

	// 更新文档内容和状态
	doc.Content = "Updated content"
	doc.WordCount = 2
	doc.Status = models.DocStatusCompleted
	err := repo.Update(doc)
	assert.NoError(t, err, "Document update should succeed")

	savedDoc, err := repo.GetByID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated content", savedDoc.Content, "Content should be updated")
	assert.Equal(t, 2, savedDoc.WordCount, "Word count should be updated")
	assert.Equal(t, models.DocStatusCompleted, savedDoc.Status, "Status should be updated")
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc, err := repo.GetByID("no-such-doc")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound, "Missing document should map to ErrDocumentNotFound")
}

func TestDocumentRepository_List(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	// 创建测试数据，错开上传时间保证排序稳定
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		doc := newTestDocument(fmt.Sprintf("list-doc-%d", i))
		doc.UploadedAt = base.Add(time.Duration(i) * time.Minute)
		if i%2 == 0 {
			doc.Status = models.DocStatusCompleted
		}
		require.NoError(t, repo.Create(doc))
	}

	t.Run("pagination", func(t *testing.T) {
		docs, total, err := repo.List(0, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total, "Total should count all documents")
		assert.Len(t, docs, 2, "Page size should be respected")
		// 默认按上传时间降序排列
		assert.Equal(t, "list-doc-4", docs[0].ID, "Newest document should come first")
	})

	t.Run("status filter", func(t *testing.T) {
		docs, total, err := repo.List(0, 10, map[string]interface{}{
			"status": models.DocStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, d := range docs {
			assert.Equal(t, models.DocStatusCompleted, d.Status)
		}
	})

	t.Run("title filter", func(t *testing.T) {
		docs, total, err := repo.List(0, 10, map[string]interface{}{
			"title": "test",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, docs, 5)
	})
}

func TestDocumentRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	docRepo := NewDocumentRepository()
	sessionRepo := NewSessionRepositoryWithDB(db)

	doc := newTestDocument("delete-doc")
	require.NoError(t, docRepo.Create(doc))

	// 为文档创建一个阅读会话，验证级联删除
	session := &models.ReadingSession{
		ID:         "delete-session",
		DocumentID: doc.ID,
		TotalWords: doc.WordCount,
	}
	require.NoError(t, sessionRepo.Create(session))

	err := docRepo.Delete(doc.ID)
	assert.NoError(t, err, "Document deletion should succeed")

	_, err = docRepo.GetByID(doc.ID)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound, "Deleted document should not be found")

	sessions, err := sessionRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions, "Sessions should be removed together with the document")
}

func TestDocumentRepository_UpdateStatus(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("status-doc")
	require.NoError(t, repo.Create(doc))

	t.Run("processing", func(t *testing.T) {
		err := repo.UpdateStatus(doc.ID, models.DocStatusProcessing, "")
		require.NoError(t, err)

		saved, err := repo.GetByID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusProcessing, saved.Status)
		assert.Nil(t, saved.ProcessedAt, "Processing state should not set processed time")
	})

	t.Run("completed sets processed time", func(t *testing.T) {
		err := repo.UpdateStatus(doc.ID, models.DocStatusCompleted, "")
		require.NoError(t, err)

		saved, err := repo.GetByID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusCompleted, saved.Status)
		assert.NotNil(t, saved.ProcessedAt, "Completion should set processed time")
	})

	t.Run("failed records error message", func(t *testing.T) {
		err := repo.UpdateStatus(doc.ID, models.DocStatusFailed, "boom")
		require.NoError(t, err)

		saved, err := repo.GetByID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusFailed, saved.Status)
		assert.Equal(t, "boom", saved.Error)
	})
}
