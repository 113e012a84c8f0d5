package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"flowread/internal/models"
	"flowread/internal/repository"
)

// DocumentStatusManager 文档状态管理器
// 负责管理文档处理的生命周期状态
type DocumentStatusManager struct {
	repo   repository.DocumentRepository // 文档仓储接口
	logger *logrus.Logger                // 日志记录器
	mu     sync.Mutex                    // 互斥锁，保证状态转换的原子性
}

// NewDocumentStatusManager 创建文档状态管理器
func NewDocumentStatusManager(repo repository.DocumentRepository, logger *logrus.Logger) *DocumentStatusManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	return &DocumentStatusManager{
		repo:   repo,
		logger: logger,
	}
}

// MarkAsProcessing 将文档标记为处理中状态
func (m *DocumentStatusManager) MarkAsProcessing(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	// 失败的文档允许重试
	if doc.Status != models.DocStatusUploaded && doc.Status != models.DocStatusFailed {
		return fmt.Errorf("invalid state transition: document %s is in %s state",
			docID, doc.Status)
	}

	m.logger.WithField("doc_id", docID).Info("Marking document as processing")

	return m.repo.UpdateStatus(docID, models.DocStatusProcessing, "")
}

// MarkAsCompleted 将文档标记为处理完成状态并记录单词数
func (m *DocumentStatusManager) MarkAsCompleted(ctx context.Context, docID string, wordCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if doc.Status != models.DocStatusProcessing && doc.Status != models.DocStatusUploaded {
		return fmt.Errorf("invalid state transition: document %s is in %s state",
			docID, doc.Status)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id":     docID,
		"word_count": wordCount,
	}).Info("Marking document as completed")

	if err := m.repo.UpdateStatus(docID, models.DocStatusCompleted, ""); err != nil {
		return err
	}

	doc.Status = models.DocStatusCompleted
	doc.WordCount = wordCount
	return m.repo.Update(doc)
}

// MarkAsFailed 将文档标记为处理失败状态
func (m *DocumentStatusManager) MarkAsFailed(ctx context.Context, docID string, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"error":  errorMsg,
	}).Error("Marking document as failed")

	return m.repo.UpdateStatus(docID, models.DocStatusFailed, errorMsg)
}

// GetStatus 获取文档当前状态
func (m *DocumentStatusManager) GetStatus(ctx context.Context, docID string) (models.DocumentStatus, error) {
	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return "", fmt.Errorf("failed to get document status: %w", err)
	}
	return doc.Status, nil
}

// GetDocument 获取完整的文档对象
func (m *DocumentStatusManager) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	return m.repo.GetByID(docID)
}

// ListDocuments 获取文档列表
func (m *DocumentStatusManager) ListDocuments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	return m.repo.List(offset, limit, filters)
}

// DeleteDocument 删除文档状态记录
func (m *DocumentStatusManager) DeleteDocument(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithField("doc_id", docID).Info("Deleting document status record")
	return m.repo.Delete(docID)
}

// ValidateStateTransition 验证状态转换的有效性
func (m *DocumentStatusManager) ValidateStateTransition(from, to models.DocumentStatus) error {
	validTransitions := map[models.DocumentStatus][]models.DocumentStatus{
		models.DocStatusUploaded: {
			models.DocStatusProcessing,
			models.DocStatusCompleted, // 小文件可能直接完成
			models.DocStatusFailed,    // 上传后可能立即失败
		},
		models.DocStatusProcessing: {
			models.DocStatusCompleted,
			models.DocStatusFailed,
		},
		// 终态
		models.DocStatusCompleted: {},
		models.DocStatusFailed:    {models.DocStatusProcessing}, // 允许重试
	}

	for _, validTo := range validTransitions[from] {
		if validTo == to {
			return nil
		}
	}

	return errors.New("invalid state transition")
}
