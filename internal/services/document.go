package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flowread/internal/cache"
	"flowread/internal/document"
	"flowread/internal/models"
	"flowread/internal/repository"
	"flowread/internal/segmenter"
	"flowread/pkg/storage"
	"flowread/pkg/taskqueue"
)

// DocumentService 文档服务
// 负责文档上传、正文提取、单词流计算和生命周期管理
type DocumentService struct {
	storage       storage.Storage               // 文件存储服务
	pipeline      *segmenter.Pipeline           // 文本处理流水线
	repo          repository.DocumentRepository // 文档元数据存储
	statusManager *DocumentStatusManager        // 文档状态管理器
	wordCache     *cache.WordStreamCache        // 单词流缓存
	taskQueue     taskqueue.Queue               // 任务队列
	asyncEnabled  bool                          // 是否异步预计算单词流
	timeout       time.Duration                 // 处理超时时间
	logger        *logrus.Logger                // 日志记录器
}

// DocumentOption 文档服务配置选项
type DocumentOption func(*DocumentService)

// NewDocumentService 创建一个新的文档服务
func NewDocumentService(
	store storage.Storage,
	pipeline *segmenter.Pipeline,
	opts ...DocumentOption,
) *DocumentService {
	srv := &DocumentService{
		storage:  store,
		pipeline: pipeline,
		timeout:  time.Minute * 5, // 默认超时时间
		logger:   logrus.New(),    // 默认日志记录器
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// WithTimeout 设置处理超时时间
func WithTimeout(timeout time.Duration) DocumentOption {
	return func(s *DocumentService) {
		s.timeout = timeout
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) DocumentOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDocumentRepository 设置文档仓储
func WithDocumentRepository(repo repository.DocumentRepository) DocumentOption {
	return func(s *DocumentService) {
		s.repo = repo
	}
}

// WithStatusManager 设置状态管理器
func WithStatusManager(manager *DocumentStatusManager) DocumentOption {
	return func(s *DocumentService) {
		s.statusManager = manager
	}
}

// WithWordCache 设置单词流缓存
func WithWordCache(c *cache.WordStreamCache) DocumentOption {
	return func(s *DocumentService) {
		s.wordCache = c
	}
}

// WithTaskQueue 设置任务队列
func WithTaskQueue(queue taskqueue.Queue) DocumentOption {
	return func(s *DocumentService) {
		s.taskQueue = queue
		s.asyncEnabled = queue != nil
	}
}

// WithAsyncProcessing 设置是否启用异步预计算
func WithAsyncProcessing(enabled bool) DocumentOption {
	return func(s *DocumentService) {
		s.asyncEnabled = enabled
	}
}

// Init 初始化文档服务
// 确保必要的依赖都已设置
func (s *DocumentService) Init() error {
	if s.repo == nil {
		s.repo = repository.NewDocumentRepository()
	}

	if s.statusManager == nil {
		s.statusManager = NewDocumentStatusManager(s.repo, s.logger)
	}

	return nil
}

// UploadDocument 上传并处理文档
// 保存原始文件、提取正文、统计单词数，返回完整的文档记录
func (s *DocumentService) UploadDocument(ctx context.Context, reader io.Reader, filename string) (*models.Document, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.WithField("filename", filename).Info("Starting document upload")

	// 先确认文件类型受支持，再落盘
	parser, err := document.ParserFactory(filename)
	if err != nil {
		return nil, fmt.Errorf("unsupported file type: %w", err)
	}

	fileInfo, err := s.storage.Save(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	doc := &models.Document{
		ID:       uuid.New().String(),
		Title:    document.TitleFromFilename(filename),
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		FilePath: fileInfo.Path,
		FileSize: fileInfo.Size,
		Status:   models.DocStatusUploaded,
	}

	if err := s.repo.Create(doc); err != nil {
		// 元数据写入失败时回收已保存的文件
		_ = s.storage.Delete(fileInfo.ID)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	if err := s.processUpload(ctx, doc, fileInfo.ID, parser); err != nil {
		s.failDocument(ctx, doc.ID, err.Error())
		return nil, err
	}

	// 返回处理后的最新记录
	processed, err := s.repo.GetByID(doc.ID)
	if err != nil {
		return nil, err
	}

	// 异步模式下把单词流预计算交给任务队列
	if s.asyncEnabled && s.taskQueue != nil {
		s.enqueuePrecompute(ctx, doc.ID)
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":     processed.ID,
		"word_count": processed.WordCount,
	}).Info("Document uploaded successfully")

	return processed, nil
}

// processUpload 提取正文并统计单词数
func (s *DocumentService) processUpload(ctx context.Context, doc *models.Document, fileID string, parser document.Parser) error {
	if err := s.statusManager.MarkAsProcessing(ctx, doc.ID); err != nil {
		s.logger.WithError(err).Error("Failed to mark document as processing")
		// 继续处理，不中断
	}

	fileReader, err := s.storage.Get(fileID)
	if err != nil {
		return fmt.Errorf("failed to read stored file: %w", err)
	}
	defer fileReader.Close()

	content, err := parser.ParseReader(fileReader, doc.Title+"."+doc.FileType)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	// 没有任何单词的文档直接拒绝
	wordCount := segmenter.WordCount(content)
	if wordCount == 0 {
		return segmenter.ErrNoText
	}

	doc.Content = content
	doc.WordCount = wordCount
	doc.Status = models.DocStatusProcessing
	if err := s.repo.Update(doc); err != nil {
		return fmt.Errorf("failed to store document content: %w", err)
	}

	if err := s.statusManager.MarkAsCompleted(ctx, doc.ID, wordCount); err != nil {
		s.logger.WithError(err).Error("Failed to mark document as completed")
	}

	return nil
}

// enqueuePrecompute 把单词流预计算任务加入队列
// 入队失败只记录日志，单词流仍可在读取时按需计算
func (s *DocumentService) enqueuePrecompute(ctx context.Context, docID string) {
	payload := taskqueue.WordPrecomputePayload{DocumentID: docID}
	taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskWordPrecompute, docID, payload)
	if err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to enqueue word precompute task")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":  docID,
		"task_id": taskID,
	}).Info("Word precompute task enqueued")
}

// Words 获取文档的完整单词流
// 优先读缓存，未命中时实时计算并回填
func (s *DocumentService) Words(ctx context.Context, docID string) ([]segmenter.ProcessedWord, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	if s.wordCache != nil {
		words, found, err := s.wordCache.Get(docID)
		if err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Word cache read failed")
		}
		if found {
			s.logger.WithField("doc_id", docID).Debug("Word stream served from cache")
			return words, nil
		}
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, err
	}

	words, err := s.pipeline.Process(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to process document text: %w", err)
	}

	if s.wordCache != nil {
		if err := s.wordCache.Set(docID, words); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Word cache write failed")
		}
	}

	return words, nil
}

// GetDocument 获取文档记录
func (s *DocumentService) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(docID)
}

// ListDocuments 列出文档
func (s *DocumentService) ListDocuments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	if err := s.Init(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(offset, limit, filters)
}

// DeleteDocument 删除文档及其相关数据
// 包括原始文件、阅读会话、缓存的单词流和未完成的任务
func (s *DocumentService) DeleteDocument(ctx context.Context, docID string) error {
	if err := s.Init(); err != nil {
		return err
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	// 仓储的Delete在一个事务内级联清理阅读会话
	if err := s.repo.Delete(docID); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	// 删除存储中的原始文件，失败不影响删除结果
	fileID := storageFileID(doc.FilePath)
	if fileID != "" {
		if err := s.storage.Delete(fileID); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to delete stored file")
		}
	}

	// 清除缓存的单词流
	if s.wordCache != nil {
		if err := s.wordCache.Invalidate(docID); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to invalidate word cache")
		}
	}

	// 清除队列中的相关任务
	if s.taskQueue != nil {
		tasks, err := s.taskQueue.GetTasksByDocument(ctx, docID)
		if err == nil {
			for _, task := range tasks {
				_ = s.taskQueue.DeleteTask(ctx, task.ID)
			}
		}
	}

	s.logger.WithField("doc_id", docID).Info("Document deleted")
	return nil
}

// failDocument 标记文档为失败状态
func (s *DocumentService) failDocument(ctx context.Context, docID string, errorMsg string) {
	if err := s.statusManager.MarkAsFailed(ctx, docID, errorMsg); err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Error("Failed to mark document as failed")
	}
}

// storageFileID 从存储路径中提取文件ID
// 存储实现用 <日期目录>/<ID>.<扩展名> 组织文件
func storageFileID(filePath string) string {
	if filePath == "" {
		return ""
	}
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
