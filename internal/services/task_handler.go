package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"flowread/internal/cache"
	"flowread/internal/repository"
	"flowread/internal/segmenter"
	"flowread/pkg/taskqueue"
)

// WordPrecomputeHandler 单词流预计算任务处理器
// 在后台worker中切分文档并写入缓存，让首次读取直接命中
type WordPrecomputeHandler struct {
	repo      repository.DocumentRepository // 文档仓储
	pipeline  *segmenter.Pipeline           // 文本处理流水线
	wordCache *cache.WordStreamCache        // 单词流缓存
	queue     taskqueue.Queue               // 任务队列，用于写回结果
	logger    *logrus.Logger                // 日志记录器
}

// NewWordPrecomputeHandler 创建单词流预计算处理器
func NewWordPrecomputeHandler(
	repo repository.DocumentRepository,
	pipeline *segmenter.Pipeline,
	wordCache *cache.WordStreamCache,
	queue taskqueue.Queue,
	logger *logrus.Logger,
) *WordPrecomputeHandler {
	if logger == nil {
		logger = logrus.New()
	}

	return &WordPrecomputeHandler{
		repo:      repo,
		pipeline:  pipeline,
		wordCache: wordCache,
		queue:     queue,
		logger:    logger,
	}
}

// GetTaskTypes 返回此处理器支持的任务类型
func (h *WordPrecomputeHandler) GetTaskTypes() []taskqueue.TaskType {
	return []taskqueue.TaskType{taskqueue.TaskWordPrecompute}
}

// ProcessTask 处理单词流预计算任务
func (h *WordPrecomputeHandler) ProcessTask(ctx context.Context, task *taskqueue.Task) error {
	var payload taskqueue.WordPrecomputePayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return taskqueue.ErrInvalidPayload
	}

	docID := payload.DocumentID
	if docID == "" {
		docID = task.DocumentID
	}

	h.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"doc_id":  docID,
	}).Info("Precomputing word stream")

	doc, err := h.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	words, err := h.pipeline.Process(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to process document text: %w", err)
	}

	cached := false
	if h.wordCache != nil {
		if err := h.wordCache.Set(docID, words); err != nil {
			h.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to cache word stream")
		} else {
			cached = true
		}
	}

	// 结果写回任务记录，worker随后会把状态置为completed
	if h.queue != nil {
		result := taskqueue.WordPrecomputeResult{
			DocumentID: docID,
			WordCount:  len(words),
			Cached:     cached,
		}
		if err := h.queue.UpdateTaskStatus(ctx, task.ID, taskqueue.StatusProcessing, result, ""); err != nil {
			h.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to store task result")
		}
	}

	return nil
}
